package timeparse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BusinessHours is the weekly window during which appointments may be booked.
// The end minute is exclusive: a 09:00-17:00 window ends at 16:59.
type BusinessHours struct {
	StartMinute int   // minutes since midnight, inclusive
	EndMinute   int   // minutes since midnight, exclusive
	Days        []int // time.Weekday numbers, Sunday = 0
}

// DefaultBusinessHours is 9 AM to 5 PM, Monday through Friday.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		StartMinute: 9 * 60,
		EndMinute:   17 * 60,
		Days:        []int{1, 2, 3, 4, 5},
	}
}

// NewBusinessHours builds a window from "HH:MM" bounds and weekday numbers.
// Unparseable bounds or an empty day set fall back to the defaults.
func NewBusinessHours(start, end string, days []int) BusinessHours {
	def := DefaultBusinessHours()

	startMin, okStart := parseClockMinutes(start)
	endMin, okEnd := parseClockMinutes(end)
	if !okStart || !okEnd || startMin >= endMin {
		startMin, endMin = def.StartMinute, def.EndMinute
	}

	var valid []int
	for _, d := range days {
		if d >= 0 && d <= 6 {
			valid = append(valid, d)
		}
	}
	if len(valid) == 0 {
		valid = def.Days
	}
	sort.Ints(valid)

	return BusinessHours{StartMinute: startMin, EndMinute: endMin, Days: valid}
}

// Contains reports whether t falls inside the window: its weekday must be a
// configured day and its minute of day must lie in [start, end).
func (b BusinessHours) Contains(t time.Time) bool {
	dayOK := false
	weekday := int(t.Weekday())
	for _, d := range b.Days {
		if d == weekday {
			dayOK = true
			break
		}
	}
	if !dayOK {
		return false
	}
	minuteOfDay := t.Hour()*60 + t.Minute()
	return minuteOfDay >= b.StartMinute && minuteOfDay < b.EndMinute
}

// String renders the window for spoken policy messages, e.g.
// "9:00 AM to 5:00 PM on Monday, Tuesday, Wednesday, Thursday and Friday".
func (b BusinessHours) String() string {
	names := make([]string, 0, len(b.Days))
	for _, d := range b.Days {
		names = append(names, time.Weekday(d).String())
	}
	var dayPart string
	switch len(names) {
	case 0:
		dayPart = "no days"
	case 1:
		dayPart = names[0]
	default:
		dayPart = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
	return fmt.Sprintf("%s to %s on %s", minutesToClock(b.StartMinute), minutesToClock(b.EndMinute), dayPart)
}

// parseClockMinutes converts "HH:MM" to minutes since midnight.
func parseClockMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// minutesToClock renders minutes since midnight as a 12-hour clock string.
func minutesToClock(m int) string {
	hour := m / 60
	minute := m % 60
	meridiem := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		display = hour - 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}
