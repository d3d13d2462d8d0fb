package nlu

import (
	"regexp"
	"strings"
)

// Slot extraction works on two views of the transcript: the raw text, where
// capitalization marks names, and a lowercased copy for everything else.
// Every pattern list is ordered; the first match wins and unmatched slots are
// simply left out of the map.

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// namePatterns look for a preposition followed by a run of capitalized words.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:[Nn]amed|[Nn]ame is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`\b(?:[Ff]or|[Tt]o)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`\b(?:[Ss]chedule|[Bb]ook|[Ff]ind|[Aa]bout|[Cc]lient|[Uu]p|[Oo]f)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
}

// nameTerminators cut a captured name short when speech-to-text capitalizes
// temporal or prepositional words mid-sentence.
var nameTerminators = map[string]bool{
	"tomorrow": true, "today": true, "for": true, "at": true, "on": true,
	"next": true, "this": true, "with": true, "by": true, "from": true,
	"about": true, "and": true, "monday": true, "tuesday": true,
	"wednesday": true, "thursday": true, "friday": true, "saturday": true,
	"sunday": true,
}

// dateTimePatterns are checked in a fixed order against the lowercased text;
// the matched raw substring becomes the dateTime slot, unresolved.
var (
	relativeDayPattern = regexp.MustCompile(`(?:today|tomorrow)(?:\s+(?:at\s+)?\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?)?`)
	clockPattern       = regexp.MustCompile(`\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)`)
	weekdayPattern     = regexp.MustCompile(`\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	slashDatePattern   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)
	monthDayPattern    = regexp.MustCompile(`\b(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\s+\d{1,2}(?:st|nd|rd|th)?\b`)
)

var dateTimePatterns = []*regexp.Regexp{
	relativeDayPattern,
	clockPattern,
	weekdayPattern,
	slashDatePattern,
	monthDayPattern,
}

// datePatterns capture a day reference without a time of day.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:today|tomorrow)\b`),
	weekdayPattern,
	slashDatePattern,
	monthDayPattern,
}

// servicePattern captures a lowercase service name after an article, e.g.
// "book a deep tissue massage for ...".
var servicePattern = regexp.MustCompile(`\b(?:schedule|book)\s+(?:a|an|the)\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s+(?:for|with|appointment|on|at|tomorrow|today)\b|$)`)

// formNamePattern captures the template name in phrases like
// "send the consent form to ...".
var formNamePattern = regexp.MustCompile(`\b(?:send|email)(?:\s+\w+)*?\s+(?:the|a|an)\s+([a-z]+(?:\s+[a-z]+)*?)\s+(?:intake|form|questionnaire)\b`)

// practitionerPattern captures "with Dr. Smith" or "with Sarah".
var practitionerPattern = regexp.MustCompile(`\bwith\s+(?:[Dd]r\.?\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

// appointmentIDPattern captures the token after "appointment" / "appointment
// id"; the token must contain a digit to count as an identifier.
var appointmentIDPattern = regexp.MustCompile(`\b(?:appointment|booking)\s+(?:id\s+)?#?\s*([A-Za-z0-9][A-Za-z0-9\-]*)`)

// ExtractParams pulls the slots relevant to an action out of the transcript.
// The email slot is extracted for every action; all other slots are looked
// for only where the workflow for that action reads them.
func ExtractParams(action Action, transcript string) map[string]string {
	params := map[string]string{}
	lower := strings.ToLower(transcript)

	if email := emailPattern.FindString(transcript); email != "" {
		params[SlotClientEmail] = strings.ToLower(email)
	}

	switch action {
	case ActionScheduleAppointment:
		setIfFound(params, SlotClientName, extractName(transcript))
		setIfFound(params, SlotDateTime, extractFirst(lower, dateTimePatterns))
		setIfFound(params, SlotServiceName, extractServiceName(lower))
		setIfFound(params, SlotPractitionerName, extractPractitioner(transcript))

	case ActionCancelAppointment:
		setIfFound(params, SlotAppointmentID, extractAppointmentID(transcript))
		setIfFound(params, SlotClientName, extractName(transcript))
		setIfFound(params, SlotDateTime, extractFirst(lower, dateTimePatterns))

	case ActionFindClient, ActionGetClientInfo:
		setIfFound(params, SlotClientName, extractName(transcript))

	case ActionCheckAppointments:
		setIfFound(params, SlotDate, extractFirst(lower, datePatterns))

	case ActionSendIntakeForm:
		setIfFound(params, SlotClientName, extractName(transcript))
		setIfFound(params, SlotServiceName, extractFormName(lower))
	}

	return params
}

func setIfFound(params map[string]string, slot, value string) {
	if value != "" {
		params[slot] = value
	}
}

func extractFirst(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func extractName(transcript string) string {
	for _, p := range namePatterns {
		m := p.FindStringSubmatch(transcript)
		if m == nil {
			continue
		}
		if name := trimNameAtTerminator(m[1]); name != "" {
			return name
		}
	}
	return ""
}

func trimNameAtTerminator(raw string) string {
	var kept []string
	for _, w := range strings.Fields(raw) {
		if nameTerminators[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func extractServiceName(lower string) string {
	m := servicePattern.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	switch name {
	case "appointment", "visit", "time", "slot":
		return ""
	}
	return name
}

func extractFormName(lower string) string {
	m := formNamePattern.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	switch name {
	case "intake", "form", "questionnaire":
		return ""
	}
	return name
}

func extractPractitioner(transcript string) string {
	m := practitionerPattern.FindStringSubmatch(transcript)
	if m == nil {
		return ""
	}
	return trimNameAtTerminator(m[1])
}

func extractAppointmentID(transcript string) string {
	m := appointmentIDPattern.FindStringSubmatch(transcript)
	if m == nil {
		return ""
	}
	id := m[1]
	if !strings.ContainsAny(id, "0123456789") {
		return ""
	}
	return id
}
