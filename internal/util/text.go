package util

import (
	"regexp"
	"strings"
)

var (
	// <think> and <thinking> blocks emitted by reasoning models
	thinkTagRegex = regexp.MustCompile(`(?i)<think(?:ing)?>([\s\S]*?)</think(?:ing)?>`)

	// "Here is the improved story:" style lead-in on its own line
	preambleRegex = regexp.MustCompile(`(?i)^\s*(?:sure[!,.]?\s*)?here(?:'s| is) (?:the|a|your) (?:revised |improved |updated |new |rewritten )?(?:bedtime )?story[^\n]*:\s*\n`)
)

// Trailing chatter that some models add after the story text
var metaPhrases = []string{
	"i hope you enjoy",
	"i hope this story",
	"let me know if you",
	"would you like me to",
	"feel free to ask",
	"changes made:",
	"improvements made:",
}

// maxChatterLength bounds the tail CleanStory will cut; longer tails are story text
const maxChatterLength = 300

// StripThinkTags removes reasoning blocks and trims the result
func StripThinkTags(response string) string {
	return strings.TrimSpace(thinkTagRegex.ReplaceAllString(response, ""))
}

// ContainsThinkTags reports whether response carries a reasoning block
func ContainsThinkTags(response string) bool {
	return thinkTagRegex.MatchString(response)
}

// CleanStory turns a raw storyteller response into story text: reasoning
// blocks, a leading "here is the story" line and trailing assistant chatter
// are removed. The cleaned text is never empty unless the input was.
func CleanStory(response string) string {
	text := StripThinkTags(response)
	if text == "" {
		return strings.TrimSpace(response)
	}

	if loc := preambleRegex.FindStringIndex(text); loc != nil && loc[1] < len(text) {
		text = strings.TrimSpace(text[loc[1]:])
	}

	lower := strings.ToLower(text)
	cut := len(text)
	for _, phrase := range metaPhrases {
		// Only chatter that starts a paragraph near the end counts
		for _, prefix := range []string{"\n\n", "\n\n**"} {
			needle := prefix + phrase
			for from := 0; from < len(lower); {
				idx := strings.Index(lower[from:], needle)
				if idx < 0 {
					break
				}
				idx += from
				if idx < cut && len(text)-idx <= maxChatterLength {
					cut = idx
					break
				}
				from = idx + len(needle)
			}
		}
	}
	if cut < len(text) {
		if trimmed := strings.TrimSpace(text[:cut]); trimmed != "" {
			text = trimmed
		}
	}

	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "\n---"))
}
