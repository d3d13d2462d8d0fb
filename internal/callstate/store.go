// Package callstate tracks per-call session state in Redis so a call's
// command history survives process restarts and horizontal scaling.
package callstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Call lifecycle statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	callKeyPrefix  = "voice:call:"
	turnsKeyPrefix = "voice:turns:"
	stateTTL       = 24 * time.Hour
)

// CallState is the live record of one phone call.
type CallState struct {
	// CallID is the platform's call identifier, or a generated UUID when
	// the webhook carries none.
	CallID string `json:"call_id"`
	// Status tracks the call lifecycle: active, completed, failed.
	Status string `json:"status"`
	// CommandCount is how many commands this call has issued.
	CommandCount int `json:"command_count"`
	// LastAction is the most recent classified action.
	LastAction string `json:"last_action,omitempty"`
	// StartedAt is when the first command arrived.
	StartedAt time.Time `json:"started_at"`
	// LastActivityAt tracks the most recent command.
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Turn is one command exchange within a call.
type Turn struct {
	Transcript string    `json:"transcript"`
	Action     string    `json:"action"`
	Message    string    `json:"message"`
	Success    bool      `json:"success"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store manages call state in Redis. Keys expire after 24 hours so stale
// calls clean themselves up.
type Store struct {
	rdb    *redis.Client
	tracer trace.Tracer
}

// NewStore creates a call state store backed by Redis.
func NewStore(rdb *redis.Client) *Store {
	return &Store{
		rdb:    rdb,
		tracer: otel.Tracer("voiceai/callstate"),
	}
}

func callKey(callID string) string {
	return callKeyPrefix + callID
}

func turnsKey(callID string) string {
	return turnsKeyPrefix + callID
}

// Save persists or updates call state.
func (s *Store) Save(ctx context.Context, state *CallState) error {
	ctx, span := s.tracer.Start(ctx, "callstate.save")
	defer span.End()

	if state == nil || state.CallID == "" {
		return fmt.Errorf("call state: call_id required")
	}
	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("call state: marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, callKey(state.CallID), data, stateTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("call state: save: %w", err)
	}
	return nil
}

// Get retrieves call state. Returns (nil, nil) when the call is unknown or
// its state has expired.
func (s *Store) Get(ctx context.Context, callID string) (*CallState, error) {
	ctx, span := s.tracer.Start(ctx, "callstate.get")
	defer span.End()

	data, err := s.rdb.Get(ctx, callKey(callID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("call state: get: %w", err)
	}
	var state CallState
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("call state: unmarshal: %w", err)
	}
	return &state, nil
}

// Touch records one more command on the call, creating the state on the
// first command. The returned bool reports whether this call was new.
func (s *Store) Touch(ctx context.Context, callID, action string) (bool, error) {
	state, err := s.Get(ctx, callID)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	created := state == nil
	if created {
		state = &CallState{
			CallID:    callID,
			Status:    StatusActive,
			StartedAt: now,
		}
	}
	state.CommandCount++
	state.LastAction = action
	state.LastActivityAt = now
	return created, s.Save(ctx, state)
}

// End marks the call finished with the given status.
func (s *Store) End(ctx context.Context, callID, status string) error {
	state, err := s.Get(ctx, callID)
	if err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("call state: call %s not found", callID)
	}
	state.Status = status
	state.LastActivityAt = time.Now().UTC()
	return s.Save(ctx, state)
}

// AppendTurn adds one command exchange to the call's turn log.
func (s *Store) AppendTurn(ctx context.Context, callID string, turn Turn) error {
	ctx, span := s.tracer.Start(ctx, "callstate.append_turn")
	defer span.End()

	data, err := json.Marshal(turn)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("call turns: marshal: %w", err)
	}
	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, turnsKey(callID), data)
	pipe.Expire(ctx, turnsKey(callID), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("call turns: append: %w", err)
	}
	return nil
}

// Turns retrieves the call's full turn log in order.
func (s *Store) Turns(ctx context.Context, callID string) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "callstate.turns")
	defer span.End()

	data, err := s.rdb.LRange(ctx, turnsKey(callID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("call turns: get: %w", err)
	}
	turns := make([]Turn, 0, len(data))
	for _, d := range data {
		var turn Turn
		if err := json.Unmarshal([]byte(d), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
