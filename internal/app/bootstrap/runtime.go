// Package bootstrap wires shared runtime components so every binary builds
// them the same way.
package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/practice-voice-ai/internal/callstate"
	appconfig "github.com/wolfman30/practice-voice-ai/internal/config"
	"github.com/wolfman30/practice-voice-ai/internal/directory"
	"github.com/wolfman30/practice-voice-ai/internal/directory/intakeq"
	"github.com/wolfman30/practice-voice-ai/internal/timeparse"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildCallStateStore returns the call state store when Redis is available.
func BuildCallStateStore(redisClient *redis.Client) *callstate.Store {
	if redisClient == nil {
		return nil
	}
	return callstate.NewStore(redisClient)
}

// BuildDirectory creates the IntakeQ-backed appointment directory.
func BuildDirectory(cfg *appconfig.Config, logger *logging.Logger) (directory.Directory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}

	opts := []intakeq.Option{intakeq.WithLogger(logger)}
	if cfg.IntakeQBaseURL != "" {
		opts = append(opts, intakeq.WithBaseURL(cfg.IntakeQBaseURL))
	}
	if cfg.IntakeQTimeout > 0 {
		opts = append(opts, intakeq.WithTimeout(cfg.IntakeQTimeout))
	}

	client, err := intakeq.NewClient(cfg.IntakeQAPIKey, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// BuildBusinessHours parses the configured booking window, falling back to
// 9-to-5 weekdays on bad values.
func BuildBusinessHours(cfg *appconfig.Config, logger *logging.Logger) timeparse.BusinessHours {
	if cfg == nil {
		return timeparse.DefaultBusinessHours()
	}
	if logger == nil {
		logger = logging.Default()
	}
	hours := timeparse.NewBusinessHours(cfg.BusinessHoursStart, cfg.BusinessHoursEnd, cfg.BusinessDays)
	logger.Info("business hours configured", "window", hours.String())
	return hours
}

// BuildClock returns a time source in the practice's timezone, so spoken
// dates and booking windows follow local time.
func BuildClock(cfg *appconfig.Config, logger *logging.Logger) func() time.Time {
	if logger == nil {
		logger = logging.Default()
	}
	name := "UTC"
	if cfg != nil && strings.TrimSpace(cfg.PracticeTimezone) != "" {
		name = cfg.PracticeTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("invalid practice timezone, using UTC", "timezone", name, "error", err)
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}
