package assistant

import (
	"regexp"
	"strings"
)

const capabilitySummary = "I can schedule appointments, cancel appointments, look up clients, check the day's schedule, or send intake forms. What would you like to do?"

// Greeting and help phrases are matched on word boundaries so that short
// tokens like "hi" never fire inside longer words.
var (
	greetingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(hello|hi|hey)\b`),
		regexp.MustCompile(`\bgood (morning|afternoon|evening)\b`),
		regexp.MustCompile(`\bhowdy\b`),
	}
	helpPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bhelp\b`),
		regexp.MustCompile(`\bwhat can you do\b`),
		regexp.MustCompile(`\bwhat do you do\b`),
		regexp.MustCompile(`\bhow does this work\b`),
		regexp.MustCompile(`\boptions\b`),
	}
)

// fallback handles transcripts that match no operation category. Greetings
// and help requests get a capability summary and count as handled; anything
// else is an honest miss.
func (e *Engine) fallback(transcript string) VoiceResponse {
	normalized := strings.ToLower(strings.TrimSpace(transcript))

	for _, p := range greetingPatterns {
		if p.MatchString(normalized) {
			return VoiceResponse{
				Message: "Hello! Thanks for calling. " + capabilitySummary,
				Success: true,
			}
		}
	}
	for _, p := range helpPatterns {
		if p.MatchString(normalized) {
			return VoiceResponse{
				Message: capabilitySummary,
				Success: true,
			}
		}
	}

	return VoiceResponse{
		Message: "I'm sorry, I didn't catch that. " + capabilitySummary,
		Success: false,
	}
}
