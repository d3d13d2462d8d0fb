package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/practice-voice-ai/internal/nlu"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

type stubClassifier struct {
	intent nlu.Intent
}

func (s *stubClassifier) Classify(_ context.Context, _ string) nlu.Intent {
	return s.intent
}

func TestIntentDebugClassify(t *testing.T) {
	h := NewIntentDebugHandler(&stubClassifier{intent: nlu.Intent{
		Action:     nlu.ActionFindClient,
		Params:     map[string]string{nlu.SlotClientEmail: "john@example.com"},
		Confidence: 0.8,
	}}, logging.Default())

	body := []byte(`{"transcript": "Look up john@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/debug/intent", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ClassifyTranscript(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp intentDebugResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Action != "FIND_CLIENT" {
		t.Errorf("expected FIND_CLIENT, got %s", resp.Action)
	}
	if resp.Params["clientEmail"] != "john@example.com" {
		t.Errorf("expected email param, got %v", resp.Params)
	}
	if resp.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", resp.Confidence)
	}
}

func TestIntentDebugEmptyTranscript(t *testing.T) {
	h := NewIntentDebugHandler(&stubClassifier{}, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/debug/intent", bytes.NewReader([]byte(`{"transcript": "  "}`)))
	w := httptest.NewRecorder()
	h.ClassifyTranscript(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestIntentDebugBadJSON(t *testing.T) {
	h := NewIntentDebugHandler(&stubClassifier{}, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/debug/intent", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	h.ClassifyTranscript(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
