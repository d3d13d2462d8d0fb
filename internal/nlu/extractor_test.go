package nlu

import (
	"reflect"
	"testing"
)

func TestExtractParamsSchedule(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       map[string]string
	}{
		{
			name:       "name and relative datetime",
			transcript: "schedule John Smith for tomorrow at 3 PM",
			want: map[string]string{
				SlotClientName: "John Smith",
				SlotDateTime:   "tomorrow at 3 pm",
			},
		},
		{
			name:       "service with article",
			transcript: "book a deep tissue massage for John tomorrow at 2 pm",
			want: map[string]string{
				SlotClientName:  "John",
				SlotDateTime:    "tomorrow at 2 pm",
				SlotServiceName: "deep tissue massage",
			},
		},
		{
			name:       "practitioner after with",
			transcript: "schedule Jane with Dr Smith tomorrow at 1 pm",
			want: map[string]string{
				SlotClientName:       "Jane",
				SlotDateTime:         "tomorrow at 1 pm",
				SlotPractitionerName: "Smith",
			},
		},
		{
			name:       "generic appointment is not a service",
			transcript: "schedule an appointment for Mary Jones today at 10 am",
			want: map[string]string{
				SlotClientName: "Mary Jones",
				SlotDateTime:   "today at 10 am",
			},
		},
		{
			name:       "nothing to extract",
			transcript: "schedule an appointment",
			want:       map[string]string{},
		},
		{
			name:       "bare time without day",
			transcript: "book Anna at 4 pm",
			want: map[string]string{
				SlotClientName: "Anna",
				SlotDateTime:   "4 pm",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParams(ActionScheduleAppointment, tt.transcript)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractParams(%q) = %v, want %v", tt.transcript, got, tt.want)
			}
		})
	}
}

func TestExtractParamsCancel(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       map[string]string
	}{
		{
			name:       "numeric id",
			transcript: "cancel appointment 12345",
			want:       map[string]string{SlotAppointmentID: "12345"},
		},
		{
			name:       "alphanumeric id with hyphen",
			transcript: "cancel appointment ABC-123",
			want:       map[string]string{SlotAppointmentID: "ABC-123"},
		},
		{
			name:       "name but no id",
			transcript: "cancel the appointment for John Smith",
			want:       map[string]string{SlotClientName: "John Smith"},
		},
		{
			name:       "word after appointment is not an id",
			transcript: "cancel the appointment tomorrow",
			want:       map[string]string{SlotDateTime: "tomorrow"},
		},
		{
			name:       "no details at all",
			transcript: "I need to cancel",
			want:       map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParams(ActionCancelAppointment, tt.transcript)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractParams(%q) = %v, want %v", tt.transcript, got, tt.want)
			}
		})
	}
}

func TestExtractParamsLookupAndIntake(t *testing.T) {
	got := ExtractParams(ActionFindClient, "look up Jane Doe")
	want := map[string]string{SlotClientName: "Jane Doe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("find client params = %v, want %v", got, want)
	}

	got = ExtractParams(ActionFindClient, "find client with email Jane.Doe@Example.com")
	if got[SlotClientEmail] != "jane.doe@example.com" {
		t.Errorf("email should be lowercased, got %q", got[SlotClientEmail])
	}

	got = ExtractParams(ActionSendIntakeForm, "send the consent form to Sarah Johnson")
	want = map[string]string{
		SlotClientName:  "Sarah Johnson",
		SlotServiceName: "consent",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("intake params = %v, want %v", got, want)
	}

	got = ExtractParams(ActionSendIntakeForm, "send the intake form to jane@example.com")
	want = map[string]string{SlotClientEmail: "jane@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("intake email params = %v, want %v", got, want)
	}
}

func TestExtractParamsCheckAppointments(t *testing.T) {
	tests := []struct {
		transcript string
		want       map[string]string
	}{
		{"what appointments do we have tomorrow", map[string]string{SlotDate: "tomorrow"}},
		{"check appointments for 3/15", map[string]string{SlotDate: "3/15"}},
		{"what appointments do we have", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			got := ExtractParams(ActionCheckAppointments, tt.transcript)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractParams(%q) = %v, want %v", tt.transcript, got, tt.want)
			}
		})
	}
}

func TestExtractParamsNeverFabricates(t *testing.T) {
	got := ExtractParams(ActionUnknown, "hello there")
	if len(got) != 0 {
		t.Errorf("unknown transcript should extract nothing, got %v", got)
	}
}
