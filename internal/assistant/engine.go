// Package assistant turns transcribed voice commands into directory
// operations and speech-ready replies. One Engine serves a single practice
// configuration; a configuration change means building a new Engine, never
// mutating a live one.
package assistant

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/practice-voice-ai/internal/directory"
	"github.com/wolfman30/practice-voice-ai/internal/nlu"
	"github.com/wolfman30/practice-voice-ai/internal/timeparse"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

var assistantTracer = otel.Tracer("voiceai/assistant")

// VoiceResponse is the single reply produced for one voice command. Message
// is written for text-to-speech, never for a screen.
type VoiceResponse struct {
	Message        string `json:"message"`
	Success        bool   `json:"success"`
	EndCall        bool   `json:"endCall,omitempty"`
	TransferNumber string `json:"transferNumber,omitempty"`
	Data           any    `json:"data,omitempty"`
}

// Config is the immutable per-practice configuration. All fields are
// optional; zero business hours fall back to 9-to-5 weekdays.
type Config struct {
	DefaultPractitionerEmail string
	DefaultServiceID         string
	DefaultLocationID        string
	TransferNumber           string
	BusinessHours            timeparse.BusinessHours
}

// Metrics records command outcomes. The engine treats a nil Metrics as a
// no-op sink.
type Metrics interface {
	ObserveCommand(action string, success bool, seconds float64)
	DirectoryFailure(operation string)
}

// Notifier delivers best-effort staff notifications. Failures are logged and
// never surface in the voice reply.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt directory.Appointment) error
	AppointmentCancelled(ctx context.Context, appointmentID, reason string) error
}

// Engine classifies transcripts and runs the matching workflow against the
// practice directory. ProcessCommand is stateless and safe for concurrent
// use; every invocation shares only the immutable Config.
type Engine struct {
	dir        directory.Directory
	cfg        Config
	classifier *nlu.Classifier
	logger     *logging.Logger
	metrics    Metrics
	notifier   Notifier
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the default logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithNotifier attaches a staff notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithClock overrides the time source. Tests pin it; production code leaves
// it at time.Now in the practice's timezone.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine builds an engine over the given directory and configuration.
func NewEngine(dir directory.Directory, cfg Config, opts ...Option) *Engine {
	if dir == nil {
		panic("assistant: directory cannot be nil")
	}
	if cfg.BusinessHours.EndMinute == 0 && len(cfg.BusinessHours.Days) == 0 {
		cfg.BusinessHours = timeparse.DefaultBusinessHours()
	}

	e := &Engine{
		dir:    dir,
		cfg:    cfg,
		logger: logging.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.classifier = nlu.NewClassifier(e.logger)
	return e
}

// ProcessCommand handles one transcript end to end. It always returns
// exactly one VoiceResponse with a non-empty message; directory errors
// degrade to an apologetic reply instead of propagating.
func (e *Engine) ProcessCommand(ctx context.Context, transcript string) VoiceResponse {
	ctx, span := assistantTracer.Start(ctx, "assistant.process_command")
	defer span.End()

	start := time.Now()
	intent := e.classifier.Classify(ctx, transcript)

	var resp VoiceResponse
	switch intent.Action {
	case nlu.ActionScheduleAppointment:
		resp = e.scheduleAppointment(ctx, intent)
	case nlu.ActionCancelAppointment:
		resp = e.cancelAppointment(ctx, intent)
	case nlu.ActionFindClient, nlu.ActionGetClientInfo:
		resp = e.findClient(ctx, intent)
	case nlu.ActionCheckAppointments:
		resp = e.checkAppointments(ctx, intent)
	case nlu.ActionSendIntakeForm:
		resp = e.sendIntakeForm(ctx, intent)
	case nlu.ActionRescheduleAppointment:
		resp = e.transferEligible("I'm not able to reschedule appointments over the phone yet.")
	case nlu.ActionCheckIntakeStatus:
		resp = e.transferEligible("I'm not able to check intake form status yet.")
	case nlu.ActionCheckAvailability:
		resp = e.transferEligible("I'm not able to look up open availability yet.")
	default:
		resp = e.fallback(transcript)
	}

	elapsed := time.Since(start).Seconds()
	if e.metrics != nil {
		e.metrics.ObserveCommand(string(intent.Action), resp.Success, elapsed)
	}
	span.SetAttributes(
		attribute.String("command.action", string(intent.Action)),
		attribute.Bool("command.success", resp.Success),
	)
	e.logger.Info("processed voice command",
		"action", intent.Action,
		"confidence", intent.Confidence,
		"success", resp.Success,
	)
	return resp
}

// Classify exposes the intent reading without running a workflow. The debug
// endpoint and tests use it.
func (e *Engine) Classify(ctx context.Context, transcript string) nlu.Intent {
	return e.classifier.Classify(ctx, transcript)
}

// clarify asks the caller for a missing or unusable detail.
func (e *Engine) clarify(message string) VoiceResponse {
	return VoiceResponse{Message: message, Success: false}
}

// transferEligible explains a hard stop and hands the caller to a human when
// a transfer number is configured.
func (e *Engine) transferEligible(message string) VoiceResponse {
	resp := VoiceResponse{Message: message, Success: false}
	if e.cfg.TransferNumber != "" {
		resp.Message += " Let me transfer you to a staff member who can help."
		resp.TransferNumber = e.cfg.TransferNumber
	} else {
		resp.Message += " Our staff will be happy to help with that directly."
	}
	return resp
}

// collaboratorFailure converts a directory error into an apologetic reply.
// The raw error is logged, counted, and never spoken.
func (e *Engine) collaboratorFailure(operation string, err error) VoiceResponse {
	e.logger.Error("directory call failed", "operation", operation, "error", err)
	if e.metrics != nil {
		e.metrics.DirectoryFailure(operation)
	}
	resp := VoiceResponse{
		Message: "I'm sorry, I'm having trouble reaching our scheduling system right now.",
		Success: false,
	}
	if e.cfg.TransferNumber != "" {
		resp.Message += " Let me transfer you to a staff member."
		resp.TransferNumber = e.cfg.TransferNumber
	} else {
		resp.Message += " Please try again in a moment."
	}
	return resp
}

func (e *Engine) notifyBooked(ctx context.Context, appt *directory.Appointment) {
	if e.notifier == nil || appt == nil {
		return
	}
	if err := e.notifier.AppointmentBooked(ctx, *appt); err != nil {
		e.logger.Warn("booking notification failed", "appointment_id", appt.ID, "error", err)
	}
}

func (e *Engine) notifyCancelled(ctx context.Context, appointmentID, reason string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.AppointmentCancelled(ctx, appointmentID, reason); err != nil {
		e.logger.Warn("cancellation notification failed", "appointment_id", appointmentID, "error", err)
	}
}
