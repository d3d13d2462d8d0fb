package calllog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestStoreInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	mock.ExpectExec("INSERT INTO voice_commands").
		WithArgs(pgxmock.AnyArg(), "call-1", "schedule for John Smith tomorrow at 3 PM",
			"SCHEDULE_APPOINTMENT", 0.67, true, "You're all set.", "", int64(120)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := store.Insert(context.Background(), Record{
		CallID:     "call-1",
		Transcript: "schedule for John Smith tomorrow at 3 PM",
		Intent:     "SCHEDULE_APPOINTMENT",
		Confidence: 0.67,
		Success:    true,
		Message:    "You're all set.",
		LatencyMS:  120,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == uuid.Nil {
		t.Error("expected a generated ID")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestStoreInsertKeepsProvidedID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	provided := uuid.New()
	mock.ExpectExec("INSERT INTO voice_commands").
		WithArgs(provided, "call-2", "cancel appointment 12345", "CANCEL_APPOINTMENT",
			1.0, false, "I need the appointment ID.", "+15551234567", int64(45)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := store.Insert(context.Background(), Record{
		ID:             provided,
		CallID:         "call-2",
		Transcript:     "cancel appointment 12345",
		Intent:         "CANCEL_APPOINTMENT",
		Confidence:     1.0,
		Success:        false,
		Message:        "I need the appointment ID.",
		TransferNumber: "+15551234567",
		LatencyMS:      45,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != provided {
		t.Errorf("id = %s, want provided %s", id, provided)
	}
}

func TestStoreListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	created := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "call_id", "transcript", "intent", "confidence", "success",
		"message", "transfer_number", "latency_ms", "created_at",
	}).
		AddRow(uuid.New(), "call-2", "cancel appointment 12345", "CANCEL_APPOINTMENT", 1.0, true, "Okay.", "", int64(45), created.Add(time.Minute)).
		AddRow(uuid.New(), "call-1", "hello there", "UNKNOWN", 0.0, true, "Hello!", "", int64(5), created)

	mock.ExpectQuery("SELECT (.+) FROM voice_commands").
		WithArgs(defaultListLimit).
		WillReturnRows(rows)

	records, err := store.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].CallID != "call-2" {
		t.Errorf("first record = %q, want newest call-2", records[0].CallID)
	}
	if records[1].Intent != "UNKNOWN" {
		t.Errorf("second intent = %q", records[1].Intent)
	}
}

func TestStoreListRecentCapsLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	mock.ExpectQuery("SELECT (.+) FROM voice_commands").
		WithArgs(maxListLimit).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "call_id", "transcript", "intent", "confidence", "success",
			"message", "transfer_number", "latency_ms", "created_at",
		}))

	if _, err := store.ListRecent(context.Background(), 10000); err != nil {
		t.Fatalf("list recent: %v", err)
	}
}

func TestStoreCountByIntent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	since := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT intent, COUNT").
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"intent", "count"}).
			AddRow("SCHEDULE_APPOINTMENT", int64(12)).
			AddRow("UNKNOWN", int64(3)))

	counts, err := store.CountByIntent(context.Background(), since)
	if err != nil {
		t.Fatalf("count by intent: %v", err)
	}
	if counts["SCHEDULE_APPOINTMENT"] != 12 || counts["UNKNOWN"] != 3 {
		t.Errorf("counts = %v", counts)
	}
}

func TestNewStoreNilPool(t *testing.T) {
	if store := NewStore(nil); store != nil {
		t.Error("nil pool should yield nil store")
	}
}
