package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/wolfman30/practice-voice-ai/internal/assistant"
	"github.com/wolfman30/practice-voice-ai/internal/calllog"
	"github.com/wolfman30/practice-voice-ai/internal/callstate"
	"github.com/wolfman30/practice-voice-ai/internal/live"
	"github.com/wolfman30/practice-voice-ai/internal/nlu"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// --- mocks ---

type stubEngine struct {
	intent      nlu.Intent
	resp        assistant.VoiceResponse
	transcripts []string
}

func (s *stubEngine) ProcessCommand(_ context.Context, transcript string) assistant.VoiceResponse {
	s.transcripts = append(s.transcripts, transcript)
	return s.resp
}

func (s *stubEngine) Classify(_ context.Context, _ string) nlu.Intent {
	return s.intent
}

type mockCallStates struct {
	touched  []string // "callID/action"
	turns    []callstate.Turn
	ended    map[string]string
	touchErr error
	created  bool
}

func (m *mockCallStates) Touch(_ context.Context, callID, action string) (bool, error) {
	m.touched = append(m.touched, callID+"/"+action)
	return m.created, m.touchErr
}

func (m *mockCallStates) AppendTurn(_ context.Context, _ string, turn callstate.Turn) error {
	m.turns = append(m.turns, turn)
	return nil
}

func (m *mockCallStates) End(_ context.Context, callID, status string) error {
	if m.ended == nil {
		m.ended = map[string]string{}
	}
	m.ended[callID] = status
	return nil
}

type mockCommandLog struct {
	records []calllog.Record
	err     error
}

func (m *mockCommandLog) Insert(_ context.Context, record calllog.Record) (uuid.UUID, error) {
	m.records = append(m.records, record)
	return uuid.New(), m.err
}

type mockBroadcast struct {
	events []live.CommandEvent
}

func (m *mockBroadcast) Publish(evt live.CommandEvent) {
	m.events = append(m.events, evt)
}

type mockGauge struct {
	started int
	ended   int
}

func (m *mockGauge) CallStarted() { m.started++ }
func (m *mockGauge) CallEnded()   { m.ended++ }

// --- helpers ---

func bookingEngine() *stubEngine {
	return &stubEngine{
		intent: nlu.Intent{
			Action:     nlu.ActionScheduleAppointment,
			Params:     map[string]string{nlu.SlotClientName: "John Smith"},
			Confidence: 0.9,
		},
		resp: assistant.VoiceResponse{
			Message: "You're all set.",
			Success: true,
		},
	}
}

func postVoiceEvent(t *testing.T, h *VoiceWebhookHandler, event VoiceEvent) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleVoice(w, req)
	return w
}

func decodeResults(t *testing.T, w *httptest.ResponseRecorder) []VoiceToolResult {
	t.Helper()
	var resp VoiceWebhookResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Results
}

func toolCallEvent(callID, toolCallID, transcript string) VoiceEvent {
	return VoiceEvent{
		Message: VoiceEventMessage{
			Type: "tool-calls",
			Call: VoiceEventCall{ID: callID},
			ToolCalls: []VoiceToolCall{{
				ID: toolCallID,
				Function: VoiceToolFunction{
					Name:      "front_desk",
					Arguments: VoiceToolArgs{Transcript: transcript},
				},
			}},
		},
	}
}

// --- tests ---

func TestVoiceWebhookInvalidJSON(t *testing.T) {
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{Engine: bookingEngine(), Logger: logging.Default()})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	h.HandleVoice(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestVoiceWebhookNoToolCalls(t *testing.T) {
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{Engine: bookingEngine(), Logger: logging.Default()})

	w := postVoiceEvent(t, h, VoiceEvent{Message: VoiceEventMessage{Type: "tool-calls"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestVoiceWebhookToolCallEnvelope(t *testing.T) {
	engine := bookingEngine()
	states := &mockCallStates{created: true}
	commands := &mockCommandLog{}
	monitor := &mockBroadcast{}
	gauge := &mockGauge{}
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{
		Engine:   engine,
		States:   states,
		Commands: commands,
		Monitor:  monitor,
		Gauge:    gauge,
		Logger:   logging.Default(),
	})

	w := postVoiceEvent(t, h, toolCallEvent("call-1", "tc-1", "Book John Smith tomorrow at 3 PM"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	results := decodeResults(t, w)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ToolCallID != "tc-1" {
		t.Errorf("expected tool call id echoed, got %q", results[0].ToolCallID)
	}

	var vr assistant.VoiceResponse
	if err := json.Unmarshal([]byte(results[0].Result), &vr); err != nil {
		t.Fatalf("result is not voice response JSON: %v", err)
	}
	if vr.Message != "You're all set." || !vr.Success {
		t.Errorf("unexpected voice response: %+v", vr)
	}

	if len(engine.transcripts) != 1 || engine.transcripts[0] != "Book John Smith tomorrow at 3 PM" {
		t.Errorf("engine saw transcripts %v", engine.transcripts)
	}
	if len(states.touched) != 1 || states.touched[0] != "call-1/SCHEDULE_APPOINTMENT" {
		t.Errorf("unexpected state touches %v", states.touched)
	}
	if len(states.turns) != 1 || states.turns[0].Message != "You're all set." || !states.turns[0].Success {
		t.Errorf("unexpected turns %+v", states.turns)
	}
	if gauge.started != 1 {
		t.Errorf("expected call started once, got %d", gauge.started)
	}

	if len(commands.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(commands.records))
	}
	rec := commands.records[0]
	if rec.CallID != "call-1" || rec.Intent != "SCHEDULE_APPOINTMENT" || !rec.Success {
		t.Errorf("unexpected log record %+v", rec)
	}
	if rec.Confidence != 0.9 {
		t.Errorf("expected confidence logged, got %v", rec.Confidence)
	}

	if len(monitor.events) != 1 {
		t.Fatalf("expected 1 live event, got %d", len(monitor.events))
	}
	evt := monitor.events[0]
	if evt.CallID != "call-1" || evt.Action != "SCHEDULE_APPOINTMENT" || evt.Confidence != 0.9 {
		t.Errorf("unexpected live event %+v", evt)
	}
}

func TestVoiceWebhookFlatBody(t *testing.T) {
	engine := bookingEngine()
	states := &mockCallStates{created: true}
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{
		Engine: engine,
		States: states,
		Logger: logging.Default(),
	})

	w := postVoiceEvent(t, h, VoiceEvent{Transcript: "Book John Smith tomorrow at 3 PM"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	results := decodeResults(t, w)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if len(states.touched) != 1 {
		t.Fatalf("expected call state touched, got %v", states.touched)
	}
	// A call id is generated when the platform sends none.
	if states.touched[0] == "/SCHEDULE_APPOINTMENT" {
		t.Errorf("expected generated call id, got %q", states.touched[0])
	}
}

func TestVoiceWebhookMultipleToolCalls(t *testing.T) {
	engine := bookingEngine()
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{Engine: engine, Logger: logging.Default()})

	event := toolCallEvent("call-2", "tc-1", "Book John Smith tomorrow at 3 PM")
	event.Message.ToolCalls = append(event.Message.ToolCalls, VoiceToolCall{
		ID: "tc-2",
		Function: VoiceToolFunction{
			Arguments: VoiceToolArgs{Transcript: "What can you do"},
		},
	})

	w := postVoiceEvent(t, h, event)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	results := decodeResults(t, w)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ToolCallID != "tc-1" || results[1].ToolCallID != "tc-2" {
		t.Errorf("tool call ids not echoed in order: %+v", results)
	}
	if len(engine.transcripts) != 2 {
		t.Errorf("expected both transcripts processed, got %v", engine.transcripts)
	}
}

func TestVoiceWebhookEndOfCallReport(t *testing.T) {
	states := &mockCallStates{}
	gauge := &mockGauge{}
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{
		Engine: bookingEngine(),
		States: states,
		Gauge:  gauge,
		Logger: logging.Default(),
	})

	w := postVoiceEvent(t, h, VoiceEvent{Message: VoiceEventMessage{
		Type:        "end-of-call-report",
		Call:        VoiceEventCall{ID: "call-3"},
		EndedReason: "customer-ended-call",
	}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if states.ended["call-3"] != callstate.StatusCompleted {
		t.Errorf("expected call completed, got %v", states.ended)
	}
	if gauge.ended != 1 {
		t.Errorf("expected call ended once, got %d", gauge.ended)
	}
}

func TestVoiceWebhookEndOfCallReportError(t *testing.T) {
	states := &mockCallStates{}
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{
		Engine: bookingEngine(),
		States: states,
		Logger: logging.Default(),
	})

	w := postVoiceEvent(t, h, VoiceEvent{Message: VoiceEventMessage{
		Type:        "end-of-call-report",
		Call:        VoiceEventCall{ID: "call-4"},
		EndedReason: "assistant-error",
	}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if states.ended["call-4"] != callstate.StatusFailed {
		t.Errorf("expected call failed, got %v", states.ended)
	}
}

func TestVoiceWebhookStateFailureStillReplies(t *testing.T) {
	states := &mockCallStates{touchErr: errors.New("redis down")}
	h := NewVoiceWebhookHandler(VoiceWebhookConfig{
		Engine: bookingEngine(),
		States: states,
		Logger: logging.Default(),
	})

	w := postVoiceEvent(t, h, toolCallEvent("call-5", "tc-9", "Book John Smith tomorrow at 3 PM"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite state failure, got %d", w.Code)
	}
	results := decodeResults(t, w)
	if len(results) != 1 || results[0].ToolCallID != "tc-9" {
		t.Errorf("expected result despite state failure, got %+v", results)
	}
}
