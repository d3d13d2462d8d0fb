package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/practice-voice-ai/cmd/mainconfig"
	"github.com/wolfman30/practice-voice-ai/internal/api/router"
	"github.com/wolfman30/practice-voice-ai/internal/app/bootstrap"
	"github.com/wolfman30/practice-voice-ai/internal/assistant"
	"github.com/wolfman30/practice-voice-ai/internal/calllog"
	appconfig "github.com/wolfman30/practice-voice-ai/internal/config"
	"github.com/wolfman30/practice-voice-ai/internal/http/handlers"
	"github.com/wolfman30/practice-voice-ai/internal/live"
	"github.com/wolfman30/practice-voice-ai/internal/observability/metrics"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting practice-voice-ai API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)
	if cfg.PublicBaseURL != "" {
		logger.Info("register this webhook with the voice platform",
			"url", strings.TrimRight(cfg.PublicBaseURL, "/")+"/webhooks/voice")
	}

	ctx := context.Background()

	// Appointment directory (IntakeQ)
	dir, err := bootstrap.BuildDirectory(cfg, logger)
	if err != nil {
		logger.Error("failed to build appointment directory", "error", err)
		os.Exit(1)
	}

	// Metrics
	metricsHandler, voiceMetrics := setupMetrics()

	// Staff notifications
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	sender := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	notifier := bootstrap.BuildNotifier(cfg, sender, logger)

	// Assistant engine
	engine := assistant.NewEngine(dir, assistant.Config{
		DefaultPractitionerEmail: cfg.DefaultPractitionerEmail,
		DefaultServiceID:         cfg.DefaultServiceID,
		DefaultLocationID:        cfg.DefaultLocationID,
		TransferNumber:           cfg.TransferNumber,
		BusinessHours:            bootstrap.BuildBusinessHours(cfg, logger),
	},
		assistant.WithLogger(logger.Component("assistant")),
		assistant.WithMetrics(voiceMetrics),
		assistant.WithNotifier(notifier),
		assistant.WithClock(bootstrap.BuildClock(cfg, logger)),
	)

	// Call state (Redis)
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	states := bootstrap.BuildCallStateStore(redisClient)
	if states == nil {
		logger.Warn("redis unavailable, call state tracking disabled")
	}

	// Command log (Postgres)
	var commands *calllog.Store
	if pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger); pool != nil {
		defer pool.Close()
		commands = calllog.NewStore(pool)
	}

	// Live call monitor
	hub := live.NewHub(logger.Component("live"))

	// Initialize handlers
	webhookCfg := handlers.VoiceWebhookConfig{
		Engine:  engine,
		Monitor: hub,
		Gauge:   voiceMetrics,
		Logger:  logger.Component("webhook"),
	}
	if states != nil {
		webhookCfg.States = states
	}
	if commands != nil {
		webhookCfg.Commands = commands
	}
	voiceWebhook := handlers.NewVoiceWebhookHandler(webhookCfg)

	var adminCalls *handlers.AdminCallsHandler
	if commands != nil {
		adminCalls = handlers.NewAdminCallsHandler(commands, logger)
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		VoiceWebhook:       voiceWebhook,
		AdminCalls:         adminCalls,
		IntentDebug:        handlers.NewIntentDebugHandler(engine, logger),
		LiveHub:            hub,
		MetricsHandler:     metricsHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.AllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds the voice metrics on a dedicated registry together with
// the handler that serves it.
func setupMetrics() (http.Handler, *metrics.VoiceMetrics) {
	registry := prometheus.NewRegistry()
	voiceMetrics := metrics.NewVoiceMetrics(registry)
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return handler, voiceMetrics
}

// connectPostgresPool opens the command log pool. Returns nil when no
// DATABASE_URL is configured; exits on a connect failure.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if strings.TrimSpace(databaseURL) == "" {
		logger.Warn("DATABASE_URL not set, command log disabled")
		return nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	return pool
}
