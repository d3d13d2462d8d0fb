package nlu

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

var classifierTracer = otel.Tracer("voiceai/intent-classifier")

// category pairs an action with its trigger phrases and the keyword subset
// used to score confidence.
type category struct {
	action   Action
	triggers []string
	keywords []string
}

// categories is evaluated top to bottom; the first category with any trigger
// substring present in the normalized transcript wins. The order is a product
// decision and must not be rearranged.
var categories = []category{
	{
		action:   ActionScheduleAppointment,
		triggers: []string{"schedule", "book", "make an appointment", "set up an appointment", "need an appointment", "come in for"},
		keywords: []string{"schedule", "book", "appointment"},
	},
	{
		action:   ActionCancelAppointment,
		triggers: []string{"cancel", "call off", "can't make", "cannot make"},
		keywords: []string{"cancel", "appointment"},
	},
	{
		action:   ActionRescheduleAppointment,
		triggers: []string{"reschedule", "move my appointment", "change my appointment", "move the appointment", "change the appointment"},
		keywords: []string{"reschedule", "appointment"},
	},
	{
		action:   ActionFindClient,
		triggers: []string{"find client", "find a client", "look up", "lookup", "search for", "do we have a client", "pull up"},
		keywords: []string{"find", "client"},
	},
	{
		action:   ActionCheckAppointments,
		triggers: []string{"appointments today", "appointments tomorrow", "appointments for", "appointments do", "what appointments", "upcoming appointments", "check appointments", "on the schedule", "on the calendar", "how many appointments"},
		keywords: []string{"appointments", "today"},
	},
	{
		action:   ActionSendIntakeForm,
		triggers: []string{"send intake", "send the intake", "send an intake", "send the form", "send a form", "send questionnaire", "send the questionnaire", "send a questionnaire", "email the intake", "send out the intake"},
		keywords: []string{"send", "intake", "form"},
	},
	{
		action:   ActionCheckIntakeStatus,
		triggers: []string{"intake status", "form status", "filled out", "completed the intake", "completed the form", "returned the form", "finished the intake"},
		keywords: []string{"intake", "status"},
	},
	{
		action:   ActionGetClientInfo,
		triggers: []string{"client info", "client information", "contact info", "phone number", "email address", "details for", "tell me about"},
		keywords: []string{"client", "info"},
	},
	{
		action:   ActionCheckAvailability,
		triggers: []string{"availability", "available", "openings", "open slots", "free time", "any times"},
		keywords: []string{"available", "time"},
	},
}

// Classifier turns a raw transcript into an Intent with extracted slots.
type Classifier struct {
	logger *logging.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(logger *logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Classifier{logger: logger}
}

// Classify normalizes the transcript, picks the first matching category, and
// fills the slots for that action. An unmatched transcript yields
// ActionUnknown with confidence 0 and no slots beyond the universal email
// extraction.
func (c *Classifier) Classify(ctx context.Context, transcript string) Intent {
	_, span := classifierTracer.Start(ctx, "nlu.classify")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(transcript))

	intent := Intent{Action: ActionUnknown}
	for _, cat := range categories {
		if !matchesAny(normalized, cat.triggers) {
			continue
		}
		intent.Action = cat.action
		intent.Confidence = keywordConfidence(normalized, cat.keywords)
		break
	}

	intent.Params = ExtractParams(intent.Action, transcript)

	span.SetAttributes(
		attribute.String("intent.action", string(intent.Action)),
		attribute.Float64("intent.confidence", intent.Confidence),
		attribute.Int("intent.slots", len(intent.Params)),
	)
	c.logger.Debug("classified transcript",
		"action", intent.Action,
		"confidence", intent.Confidence,
		"slots", len(intent.Params),
	)

	return intent
}

func matchesAny(text string, triggers []string) bool {
	for _, trigger := range triggers {
		if strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}

// keywordConfidence is the fraction of the category's keywords present in
// the text, capped at 1.
func keywordConfidence(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	found := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found++
		}
	}
	score := float64(found) / float64(len(keywords))
	if score > 1 {
		score = 1
	}
	return score
}
