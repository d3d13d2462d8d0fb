// Package speech renders domain values as strings a text-to-speech engine
// reads naturally.
package speech

import (
	"strings"
	"time"
)

// PhoneForSpeech spaces out the digits of a phone number so TTS reads them
// one at a time. Ten-digit numbers are grouped 3-3-4 with a pause (comma)
// between groups: "5551234567" becomes "5 5 5, 1 2 3, 4 5 6 7". Anything
// else is read digit by digit with no grouping.
func PhoneForSpeech(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return ""
	}

	if len(digits) == 10 {
		groups := []string{
			spaceOut(digits[0:3]),
			spaceOut(digits[3:6]),
			spaceOut(digits[6:10]),
		}
		return strings.Join(groups, ", ")
	}
	return spaceOut(digits)
}

func spaceOut(digits []rune) string {
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = string(d)
	}
	return strings.Join(parts, " ")
}

// DateForSpeech renders a full date with weekday, month name, day, year and
// a 12-hour clock time, e.g. "Thursday, August 20, 2026 at 3:00 PM".
func DateForSpeech(t time.Time) string {
	return t.Format("Monday, January 2, 2006 at 3:04 PM")
}

// DayForSpeech renders just the calendar day, e.g. "Thursday, August 20".
func DayForSpeech(t time.Time) string {
	return t.Format("Monday, January 2")
}

// TimeForSpeech renders a 12-hour clock time, e.g. "3:00 PM".
func TimeForSpeech(t time.Time) string {
	return t.Format("3:04 PM")
}

// JoinForSpeech joins up to max items with commas for a spoken list. A zero
// or negative max means no cap.
func JoinForSpeech(items []string, max int) string {
	if max > 0 && len(items) > max {
		items = items[:max]
	}
	return strings.Join(items, ", ")
}
