package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/practice-voice-ai/internal/nlu"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// transcriptClassifier is the slice of the assistant engine the debug
// endpoint needs.
type transcriptClassifier interface {
	Classify(ctx context.Context, transcript string) nlu.Intent
}

// IntentDebugHandler exposes the classifier's reading of a transcript
// without running a workflow. Useful when tuning assistant prompts.
type IntentDebugHandler struct {
	classifier transcriptClassifier
	logger     *logging.Logger
}

// NewIntentDebugHandler creates a new IntentDebugHandler.
func NewIntentDebugHandler(classifier transcriptClassifier, logger *logging.Logger) *IntentDebugHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &IntentDebugHandler{
		classifier: classifier,
		logger:     logger,
	}
}

type intentDebugRequest struct {
	Transcript string `json:"transcript"`
}

type intentDebugResponse struct {
	Action     string            `json:"action"`
	Params     map[string]string `json:"params"`
	Confidence float64           `json:"confidence"`
}

// ClassifyTranscript handles POST /debug/intent.
func (h *IntentDebugHandler) ClassifyTranscript(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var req intentDebugRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		http.Error(w, "transcript required", http.StatusBadRequest)
		return
	}

	intent := h.classifier.Classify(r.Context(), transcript)
	writeJSON(w, http.StatusOK, intentDebugResponse{
		Action:     string(intent.Action),
		Params:     intent.Params,
		Confidence: intent.Confidence,
	})
}
