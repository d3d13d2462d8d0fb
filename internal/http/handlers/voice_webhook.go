package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/practice-voice-ai/internal/assistant"
	"github.com/wolfman30/practice-voice-ai/internal/calllog"
	"github.com/wolfman30/practice-voice-ai/internal/callstate"
	"github.com/wolfman30/practice-voice-ai/internal/live"
	"github.com/wolfman30/practice-voice-ai/internal/nlu"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// ----- Voice platform webhook event types -----

// VoiceEvent is the top-level webhook payload. The voice platform registers
// our endpoint as a webhook tool on its assistant; when the assistant's LLM
// decides the front desk should act, it calls the tool with the caller's
// latest utterance. A flat CallID/Transcript body is also accepted so the
// endpoint can be driven without the full envelope.
type VoiceEvent struct {
	Message VoiceEventMessage `json:"message"`

	// Flat fallback fields.
	CallID     string `json:"callId,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// VoiceEventMessage carries one assistant turn: either tool invocations or
// an end-of-call report.
type VoiceEventMessage struct {
	// Type identifies the event ("tool-calls", "end-of-call-report").
	Type string `json:"type,omitempty"`
	// Call identifies the phone call this turn belongs to.
	Call VoiceEventCall `json:"call,omitempty"`
	// ToolCalls are the tool invocations for this turn.
	ToolCalls []VoiceToolCall `json:"toolCalls,omitempty"`
	// EndedReason is set on end-of-call reports.
	EndedReason string `json:"endedReason,omitempty"`
}

// VoiceEventCall identifies the platform call.
type VoiceEventCall struct {
	ID string `json:"id,omitempty"`
}

// VoiceToolCall is one tool invocation. ID must be echoed back in the
// response so the platform can correlate the result.
type VoiceToolCall struct {
	ID       string            `json:"id"`
	Function VoiceToolFunction `json:"function"`
}

// VoiceToolFunction names the invoked tool and carries its arguments.
type VoiceToolFunction struct {
	Name      string        `json:"name,omitempty"`
	Arguments VoiceToolArgs `json:"arguments"`
}

// VoiceToolArgs holds the named arguments supplied by the platform's LLM.
// Our tool expects a single "transcript" argument: the caller's utterance.
type VoiceToolArgs struct {
	Transcript string `json:"transcript"`
}

// VoiceToolResult pairs a tool call with its serialized VoiceResponse. The
// platform feeds Result back to the assistant, which speaks the message.
type VoiceToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// VoiceWebhookResponse is the JSON body returned to the platform.
type VoiceWebhookResponse struct {
	Results []VoiceToolResult `json:"results"`
}

// ----- Handler -----

// commandEngine is the slice of the assistant engine the webhook needs.
type commandEngine interface {
	ProcessCommand(ctx context.Context, transcript string) assistant.VoiceResponse
	Classify(ctx context.Context, transcript string) nlu.Intent
}

// callStates tracks per-call lifecycle in Redis.
type callStates interface {
	Touch(ctx context.Context, callID, action string) (bool, error)
	AppendTurn(ctx context.Context, callID string, turn callstate.Turn) error
	End(ctx context.Context, callID, status string) error
}

// commandLog persists processed commands for the admin surface.
type commandLog interface {
	Insert(ctx context.Context, record calllog.Record) (uuid.UUID, error)
}

// commandBroadcast fans processed commands out to live watchers.
type commandBroadcast interface {
	Publish(evt live.CommandEvent)
}

// callGauge tracks how many calls are currently in flight.
type callGauge interface {
	CallStarted()
	CallEnded()
}

// VoiceWebhookHandler turns webhook tool calls into assistant commands. The
// engine reply is authoritative; state, logging, and broadcast are
// best-effort and never block or change what the caller hears.
type VoiceWebhookHandler struct {
	engine   commandEngine
	states   callStates
	commands commandLog
	monitor  commandBroadcast
	gauge    callGauge
	logger   *logging.Logger
}

// VoiceWebhookConfig configures the VoiceWebhookHandler. Engine is required;
// everything else may be nil.
type VoiceWebhookConfig struct {
	Engine   commandEngine
	States   callStates
	Commands commandLog
	Monitor  commandBroadcast
	Gauge    callGauge
	Logger   *logging.Logger
}

// NewVoiceWebhookHandler creates a new VoiceWebhookHandler.
func NewVoiceWebhookHandler(cfg VoiceWebhookConfig) *VoiceWebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &VoiceWebhookHandler{
		engine:   cfg.Engine,
		states:   cfg.States,
		commands: cfg.Commands,
		monitor:  cfg.Monitor,
		gauge:    cfg.Gauge,
		logger:   cfg.Logger,
	}
}

// HandleVoice is the HTTP handler for POST /webhooks/voice.
func (h *VoiceWebhookHandler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Error("voice webhook: failed to read body", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var event VoiceEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("voice webhook: failed to parse event", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	callID := event.Message.Call.ID
	if callID == "" {
		callID = event.CallID
	}
	if callID == "" {
		callID = uuid.NewString()
	}

	if event.Message.Type == "end-of-call-report" {
		h.endCall(ctx, callID, event.Message.EndedReason)
		writeJSON(w, http.StatusOK, VoiceWebhookResponse{Results: []VoiceToolResult{}})
		return
	}

	toolCalls := event.Message.ToolCalls
	if len(toolCalls) == 0 && event.Transcript != "" {
		toolCalls = []VoiceToolCall{{
			Function: VoiceToolFunction{Arguments: VoiceToolArgs{Transcript: event.Transcript}},
		}}
	}
	if len(toolCalls) == 0 {
		h.logger.Warn("voice webhook: no tool calls in event", "call_id", callID)
		http.Error(w, "no tool calls", http.StatusBadRequest)
		return
	}

	results := make([]VoiceToolResult, 0, len(toolCalls))
	for _, tc := range toolCalls {
		transcript := strings.TrimSpace(tc.Function.Arguments.Transcript)
		resp := h.runCommand(ctx, callID, transcript)

		payload, err := json.Marshal(resp)
		if err != nil {
			payload = []byte(resp.Message)
		}
		results = append(results, VoiceToolResult{ToolCallID: tc.ID, Result: string(payload)})
	}

	writeJSON(w, http.StatusOK, VoiceWebhookResponse{Results: results})
}

// runCommand feeds one transcript through the engine and records the
// exchange everywhere it is observed.
func (h *VoiceWebhookHandler) runCommand(ctx context.Context, callID, transcript string) assistant.VoiceResponse {
	start := time.Now()
	intent := h.engine.Classify(ctx, transcript)
	resp := h.engine.ProcessCommand(ctx, transcript)
	latency := time.Since(start)

	if h.states != nil {
		created, err := h.states.Touch(ctx, callID, string(intent.Action))
		if err != nil {
			h.logger.Warn("voice webhook: call state update failed", "call_id", callID, "error", err)
		} else if created && h.gauge != nil {
			h.gauge.CallStarted()
		}
		turn := callstate.Turn{
			Transcript: transcript,
			Action:     string(intent.Action),
			Message:    resp.Message,
			Success:    resp.Success,
			Timestamp:  time.Now().UTC(),
		}
		if err := h.states.AppendTurn(ctx, callID, turn); err != nil {
			h.logger.Warn("voice webhook: turn append failed", "call_id", callID, "error", err)
		}
	}

	if h.commands != nil {
		record := calllog.Record{
			CallID:         callID,
			Transcript:     transcript,
			Intent:         string(intent.Action),
			Confidence:     intent.Confidence,
			Success:        resp.Success,
			Message:        resp.Message,
			TransferNumber: resp.TransferNumber,
			LatencyMS:      latency.Milliseconds(),
		}
		if _, err := h.commands.Insert(ctx, record); err != nil {
			h.logger.Warn("voice webhook: command log insert failed", "call_id", callID, "error", err)
		}
	}

	if h.monitor != nil {
		h.monitor.Publish(live.CommandEvent{
			CallID:     callID,
			Transcript: transcript,
			Action:     string(intent.Action),
			Confidence: intent.Confidence,
			Message:    resp.Message,
			Success:    resp.Success,
			Timestamp:  time.Now().UTC(),
		})
	}

	return resp
}

// endCall closes out call state when the platform reports the call finished.
func (h *VoiceWebhookHandler) endCall(ctx context.Context, callID, reason string) {
	status := callstate.StatusCompleted
	if strings.Contains(strings.ToLower(reason), "error") {
		status = callstate.StatusFailed
	}
	if h.states != nil {
		if err := h.states.End(ctx, callID, status); err != nil {
			h.logger.Warn("voice webhook: call end failed", "call_id", callID, "error", err)
		} else if h.gauge != nil {
			// Decrement only for calls the state store actually tracked, so
			// the in-flight gauge stays paired with CallStarted.
			h.gauge.CallEnded()
		}
	}
	h.logger.Info("voice webhook: call ended",
		"call_id", callID,
		"status", status,
		"reason", reason,
	)
}

// writeJSON writes an application/json response body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
