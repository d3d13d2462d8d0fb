// Package calllog persists every processed voice command to Postgres for
// the admin dashboard and offline review.
package calllog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Record is one processed voice command.
type Record struct {
	ID             uuid.UUID
	CallID         string
	Transcript     string
	Intent         string
	Confidence     float64
	Success        bool
	Message        string
	TransferNumber string
	LatencyMS      int64
	CreatedAt      time.Time
}

// Store persists voice command records in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a command log store. A nil pool yields a nil store;
// callers treat that as logging disabled.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

// Insert writes one command record and returns its ID. A zero record ID is
// assigned client-side so the caller can correlate before the write lands.
func (s *Store) Insert(ctx context.Context, record Record) (uuid.UUID, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	query := `
		INSERT INTO voice_commands (id, call_id, transcript, intent, confidence, success, message, transfer_number, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`
	_, err := s.pool.Exec(ctx, query,
		record.ID, record.CallID, record.Transcript, record.Intent,
		record.Confidence, record.Success, record.Message,
		record.TransferNumber, record.LatencyMS,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("calllog: insert command: %w", err)
	}
	return record.ID, nil
}

// ListRecent returns the most recent command records, newest first. A
// non-positive limit falls back to the default; oversized limits are capped.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	query := `
		SELECT id, call_id, transcript, intent, confidence, success, message, COALESCE(transfer_number, ''), latency_ms, created_at
		FROM voice_commands
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("calllog: list commands: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.CallID, &r.Transcript, &r.Intent,
			&r.Confidence, &r.Success, &r.Message, &r.TransferNumber,
			&r.LatencyMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("calllog: scan command: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("calllog: iterate commands: %w", err)
	}
	return records, nil
}

// CountByIntent returns how many commands resolved to each intent since the
// given time, for the admin dashboard summary.
func (s *Store) CountByIntent(ctx context.Context, since time.Time) (map[string]int64, error) {
	query := `
		SELECT intent, COUNT(*)
		FROM voice_commands
		WHERE created_at >= $1
		GROUP BY intent
	`
	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("calllog: count by intent: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var intent string
		var count int64
		if err := rows.Scan(&intent, &count); err != nil {
			return nil, fmt.Errorf("calllog: scan count: %w", err)
		}
		counts[intent] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("calllog: iterate counts: %w", err)
	}
	return counts, nil
}
