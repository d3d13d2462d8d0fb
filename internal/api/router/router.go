// Package router wires the HTTP surface: the voice webhook, the live call
// monitor, and the admin dashboard endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/practice-voice-ai/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/practice-voice-ai/internal/http/middleware"
	"github.com/wolfman30/practice-voice-ai/internal/live"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger       *logging.Logger
	VoiceWebhook *handlers.VoiceWebhookHandler
	AdminCalls   *handlers.AdminCallsHandler
	IntentDebug  *handlers.IntentDebugHandler
	LiveHub      *live.Hub

	// MetricsHandler serves GET /metrics when set (promhttp).
	MetricsHandler http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Webhook rate limiting; disabled when RateLimitPerSecond is zero.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.HealthCheck)
		if cfg.VoiceWebhook != nil {
			webhook := public
			if cfg.RateLimitPerSecond > 0 {
				webhook = public.With(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
			}
			webhook.Post("/webhooks/voice", cfg.VoiceWebhook.HandleVoice)
		}
		if cfg.LiveHub != nil {
			public.Get("/live/calls", cfg.LiveHub.HandleWebSocket)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes (protected by JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.AdminCalls != nil {
				admin.Get("/calls", cfg.AdminCalls.ListCalls)
				admin.Get("/calls/stats", cfg.AdminCalls.GetStats)
			}
			if cfg.IntentDebug != nil {
				admin.Post("/debug/intent", cfg.IntentDebug.ClassifyTranscript)
			}
		})
	}

	return r
}
