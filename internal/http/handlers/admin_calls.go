package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/wolfman30/practice-voice-ai/internal/calllog"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// commandReader is the slice of the command log the admin surface needs.
type commandReader interface {
	ListRecent(ctx context.Context, limit int) ([]calllog.Record, error)
	CountByIntent(ctx context.Context, since time.Time) (map[string]int64, error)
}

// AdminCallsHandler serves the processed-command log to the admin dashboard.
type AdminCallsHandler struct {
	commands commandReader
	logger   *logging.Logger
}

// NewAdminCallsHandler creates a new AdminCallsHandler.
func NewAdminCallsHandler(commands commandReader, logger *logging.Logger) *AdminCallsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminCallsHandler{
		commands: commands,
		logger:   logger,
	}
}

// callRecord is the JSON shape of one logged command.
type callRecord struct {
	ID             string    `json:"id"`
	CallID         string    `json:"call_id"`
	Transcript     string    `json:"transcript"`
	Intent         string    `json:"intent"`
	Confidence     float64   `json:"confidence"`
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	TransferNumber string    `json:"transfer_number,omitempty"`
	LatencyMS      int64     `json:"latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListCalls handles GET /admin/calls?limit=N.
func (h *AdminCallsHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.commands.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("admin calls: list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	calls := make([]callRecord, 0, len(records))
	for _, rec := range records {
		calls = append(calls, callRecord{
			ID:             rec.ID.String(),
			CallID:         rec.CallID,
			Transcript:     rec.Transcript,
			Intent:         rec.Intent,
			Confidence:     rec.Confidence,
			Success:        rec.Success,
			Message:        rec.Message,
			TransferNumber: rec.TransferNumber,
			LatencyMS:      rec.LatencyMS,
			CreatedAt:      rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"calls": calls,
		"count": len(calls),
	})
}

// GetStats handles GET /admin/calls/stats?hours=N. It reports how many
// commands each intent received over the window, default 24 hours.
func (h *AdminCallsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	counts, err := h.commands.CountByIntent(r.Context(), since)
	if err != nil {
		h.logger.Error("admin calls: stats failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"since":   since.UTC().Format(time.RFC3339),
		"intents": counts,
	})
}
