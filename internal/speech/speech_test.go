package speech

import (
	"testing"
	"time"
)

func TestPhoneForSpeech(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{
			name:  "ten digits grouped",
			phone: "5551234567",
			want:  "5 5 5, 1 2 3, 4 5 6 7",
		},
		{
			name:  "formatted input stripped first",
			phone: "555-123-4567",
			want:  "5 5 5, 1 2 3, 4 5 6 7",
		},
		{
			name:  "parenthesized input",
			phone: "(555) 123-4567",
			want:  "5 5 5, 1 2 3, 4 5 6 7",
		},
		{
			name:  "eleven digits ungrouped",
			phone: "15551234567",
			want:  "1 5 5 5 1 2 3 4 5 6 7",
		},
		{
			name:  "short extension ungrouped",
			phone: "411",
			want:  "4 1 1",
		},
		{
			name:  "no digits",
			phone: "n/a",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneForSpeech(tt.phone); got != tt.want {
				t.Errorf("PhoneForSpeech(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestDateForSpeech(t *testing.T) {
	at := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	if got := DateForSpeech(at); got != "Thursday, August 20, 2026 at 3:00 PM" {
		t.Errorf("DateForSpeech = %q", got)
	}
	if got := DayForSpeech(at); got != "Thursday, August 20" {
		t.Errorf("DayForSpeech = %q", got)
	}
	if got := TimeForSpeech(at); got != "3:00 PM" {
		t.Errorf("TimeForSpeech = %q", got)
	}
}

func TestJoinForSpeech(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	if got := JoinForSpeech(items, 3); got != "a, b, c" {
		t.Errorf("capped join = %q", got)
	}
	if got := JoinForSpeech(items, 0); got != "a, b, c, d" {
		t.Errorf("uncapped join = %q", got)
	}
	if got := JoinForSpeech(nil, 5); got != "" {
		t.Errorf("empty join = %q", got)
	}
}
