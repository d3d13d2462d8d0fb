package bootstrap

import (
	"context"
	"testing"
	"time"

	appconfig "github.com/wolfman30/practice-voice-ai/internal/config"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

func TestBuildRedisClientNilConfig(t *testing.T) {
	if client := BuildRedisClient(context.Background(), nil, logging.New("error"), false); client != nil {
		t.Fatalf("expected nil client for nil config")
	}
}

func TestBuildRedisClientEmptyAddr(t *testing.T) {
	cfg := &appconfig.Config{RedisAddr: "  "}
	if client := BuildRedisClient(context.Background(), cfg, logging.New("error"), false); client != nil {
		t.Fatalf("expected nil client for empty addr")
	}
}

func TestBuildRedisClientNoVerify(t *testing.T) {
	cfg := &appconfig.Config{RedisAddr: "localhost:6379"}
	client := BuildRedisClient(context.Background(), cfg, logging.New("error"), false)
	if client == nil {
		t.Fatalf("expected client without verification")
	}
	_ = client.Close()
}

func TestBuildCallStateStoreNilClient(t *testing.T) {
	if store := BuildCallStateStore(nil); store != nil {
		t.Fatalf("expected nil store without redis")
	}
}

func TestBuildDirectoryRequiresConfig(t *testing.T) {
	if _, err := BuildDirectory(nil, logging.New("error")); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestBuildDirectoryRequiresAPIKey(t *testing.T) {
	cfg := &appconfig.Config{}
	if _, err := BuildDirectory(cfg, logging.New("error")); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestBuildDirectory(t *testing.T) {
	cfg := &appconfig.Config{
		IntakeQAPIKey:  "test-key",
		IntakeQBaseURL: "https://example.test/api/v1",
		IntakeQTimeout: 5 * time.Second,
	}
	dir, err := BuildDirectory(cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir == nil {
		t.Fatalf("expected directory client")
	}
}

func TestBuildBusinessHoursNilConfig(t *testing.T) {
	hours := BuildBusinessHours(nil, logging.New("error"))
	// Monday 10 AM is inside the 9-to-5 weekday default.
	monday := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	if !hours.Contains(monday) {
		t.Fatalf("expected default window to contain Monday morning")
	}
}

func TestBuildBusinessHoursFromConfig(t *testing.T) {
	cfg := &appconfig.Config{
		BusinessHoursStart: "08:00",
		BusinessHoursEnd:   "12:00",
		BusinessDays:       []int{6},
	}
	hours := BuildBusinessHours(cfg, logging.New("error"))

	saturday := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	if !hours.Contains(saturday) {
		t.Fatalf("expected Saturday morning inside window")
	}
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if hours.Contains(monday) {
		t.Fatalf("expected Monday outside Saturday-only window")
	}
}

func TestBuildClockBadTimezone(t *testing.T) {
	cfg := &appconfig.Config{PracticeTimezone: "Not/AZone"}
	clock := BuildClock(cfg, logging.New("error"))
	if clock().Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", clock().Location())
	}
}

func TestBuildClockPracticeTimezone(t *testing.T) {
	cfg := &appconfig.Config{PracticeTimezone: "America/New_York"}
	clock := BuildClock(cfg, logging.New("error"))
	if clock().Location().String() != "America/New_York" {
		t.Fatalf("expected practice timezone, got %v", clock().Location())
	}
}
