package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Patterns for explicit clock times inside a spoken phrase.
var (
	// "3 pm", "3:30 PM", "10 a.m."
	clock12RE = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?)`)
	// Bare 24-hour "14:30". Only consulted when no am/pm marker matched.
	clock24RE = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	// "march 5", "March 5th", "dec 12"
	monthDayRE = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	// "3/15", "03/15/2026"
	slashDateRE = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
)

var monthMap = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// Resolve turns a raw spoken date/time phrase into a concrete instant in
// now's location. The second return is false when the phrase cannot be
// resolved; callers are expected to ask for clarification rather than
// substitute a default.
//
// Handled forms: "today"/"tomorrow" combined with an explicit time of day
// (12-hour "H[:MM] am/pm" or bare 24-hour "HH:MM"), and calendar dates
// ("3/15", "March 5th", "2026-03-15") with an optional explicit time. A bare
// relative day or a bare clock time does not resolve: a booking needs both.
func Resolve(phrase string, now time.Time) (time.Time, bool) {
	text := strings.ToLower(strings.TrimSpace(phrase))
	if text == "" {
		return time.Time{}, false
	}

	hour, minute, hasClock := extractClockTime(text)

	switch {
	case strings.Contains(text, "tomorrow"):
		if !hasClock {
			return time.Time{}, false
		}
		return atTime(now.AddDate(0, 0, 1), hour, minute), true
	case strings.Contains(text, "today"):
		if !hasClock {
			return time.Time{}, false
		}
		return atTime(now, hour, minute), true
	}

	day, ok := extractCalendarDate(text, now)
	if !ok {
		return time.Time{}, false
	}
	if hasClock {
		return atTime(day, hour, minute), true
	}
	return atTime(day, 0, 0), true
}

// ResolveDay turns a date-only phrase into midnight of that calendar day in
// now's location. Unlike Resolve it accepts a bare "today"/"tomorrow", since
// a day listing needs no time of day.
func ResolveDay(phrase string, now time.Time) (time.Time, bool) {
	text := strings.ToLower(strings.TrimSpace(phrase))
	switch {
	case text == "":
		return time.Time{}, false
	case strings.Contains(text, "tomorrow"):
		return atTime(now.AddDate(0, 0, 1), 0, 0), true
	case strings.Contains(text, "today"):
		return atTime(now, 0, 0), true
	}
	day, ok := extractCalendarDate(text, now)
	if !ok {
		return time.Time{}, false
	}
	return atTime(day, 0, 0), true
}

// extractClockTime pulls an explicit time of day out of the phrase.
func extractClockTime(text string) (hour, minute int, ok bool) {
	if m := clock12RE.FindStringSubmatch(text); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, 0, false
		}
		meridiem := strings.ReplaceAll(strings.ToLower(m[3]), ".", "")
		if meridiem == "pm" && hour != 12 {
			hour += 12
		} else if meridiem == "am" && hour == 12 {
			hour = 0
		}
		return hour, minute, true
	}

	if m := clock24RE.FindStringSubmatch(text); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, 0, false
		}
		return hour, minute, true
	}

	return 0, 0, false
}

// extractCalendarDate resolves month-name, slash, and ISO dates. Dates
// without a year land in now's year.
func extractCalendarDate(text string, now time.Time) (time.Time, bool) {
	if m := monthDayRE.FindStringSubmatch(text); m != nil {
		month := monthMap[strings.ToLower(m[1])[:3]]
		day, _ := strconv.Atoi(m[2])
		if day >= 1 && day <= 31 {
			return time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location()), true
		}
	}

	if m := slashDateRE.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), true
		}
	}

	for _, layout := range []string{"2006-01-02", "january 2, 2006", "january 2 2006"} {
		if t, err := time.ParseInLocation(layout, text, now.Location()); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// atTime pins a clock time onto the date portion of t.
func atTime(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
