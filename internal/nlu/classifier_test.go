package nlu

import (
	"context"
	"testing"
)

func TestClassifyAction(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name       string
		transcript string
		want       Action
	}{
		{
			name:       "schedule with name and time",
			transcript: "schedule John Smith for tomorrow at 3 PM",
			want:       ActionScheduleAppointment,
		},
		{
			name:       "book phrasing",
			transcript: "can I book a massage on Friday",
			want:       ActionScheduleAppointment,
		},
		{
			name:       "cancel",
			transcript: "please cancel my appointment",
			want:       ActionCancelAppointment,
		},
		{
			name:       "reschedule via move",
			transcript: "I need to move my appointment",
			want:       ActionRescheduleAppointment,
		},
		{
			name:       "find client",
			transcript: "can you look up Jane Doe",
			want:       ActionFindClient,
		},
		{
			name:       "check appointments",
			transcript: "what appointments do we have today",
			want:       ActionCheckAppointments,
		},
		{
			name:       "send intake form",
			transcript: "send the intake form to jane@example.com",
			want:       ActionSendIntakeForm,
		},
		{
			name:       "intake status",
			transcript: "has John filled out his intake form",
			want:       ActionCheckIntakeStatus,
		},
		{
			name:       "client info",
			transcript: "what's the phone number for John Smith",
			want:       ActionGetClientInfo,
		},
		{
			name:       "availability",
			transcript: "do you have any openings tomorrow",
			want:       ActionCheckAvailability,
		},
		{
			name:       "greeting is unknown",
			transcript: "hello there",
			want:       ActionUnknown,
		},
		{
			name:       "gibberish is unknown",
			transcript: "the weather is nice",
			want:       ActionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.transcript)
			if got.Action != tt.want {
				t.Errorf("Classify(%q).Action = %s, want %s", tt.transcript, got.Action, tt.want)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("Classify(%q).Confidence = %f, out of [0,1]", tt.transcript, got.Confidence)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := NewClassifier(nil)

	// "cancel" and "appointment" are both present: the full keyword subset.
	got := c.Classify(context.Background(), "cancel my appointment please")
	if got.Confidence != 1.0 {
		t.Errorf("full keyword match confidence = %f, want 1.0", got.Confidence)
	}

	// Trigger matched but only one of two keywords present.
	got = c.Classify(context.Background(), "I have to cancel")
	if got.Action != ActionCancelAppointment {
		t.Fatalf("action = %s, want CANCEL_APPOINTMENT", got.Action)
	}
	if got.Confidence != 0.5 {
		t.Errorf("partial keyword match confidence = %f, want 0.5", got.Confidence)
	}

	// No category match at all.
	got = c.Classify(context.Background(), "hello there")
	if got.Confidence != 0 {
		t.Errorf("unknown confidence = %f, want 0", got.Confidence)
	}
}

// The category order is a product decision: first substring match wins, so
// rearranging entries changes behavior.
func TestCategoryOrder(t *testing.T) {
	want := []Action{
		ActionScheduleAppointment,
		ActionCancelAppointment,
		ActionRescheduleAppointment,
		ActionFindClient,
		ActionCheckAppointments,
		ActionSendIntakeForm,
		ActionCheckIntakeStatus,
		ActionGetClientInfo,
		ActionCheckAvailability,
	}
	if len(categories) != len(want) {
		t.Fatalf("category count = %d, want %d", len(categories), len(want))
	}
	for i, cat := range categories {
		if cat.action != want[i] {
			t.Errorf("categories[%d] = %s, want %s", i, cat.action, want[i])
		}
	}
}
