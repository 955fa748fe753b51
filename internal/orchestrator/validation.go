package orchestrator

import (
	"fmt"
	"strings"
)

// Common refusal patterns from LLM responses
var refusalPatterns = []string{
	"i'm sorry, but i can't help with that",
	"i cannot help with that",
	"i can't assist with that",
	"i'm unable to help with that",
	"i apologize, but i cannot",
	"i'm not able to assist",
	"i cannot provide",
	"i cannot generate",
	"i cannot write",
	"i'm sorry, i cannot",
	"i'm sorry, but i cannot",
	"as an ai",
	"i don't feel comfortable",
}

const (
	minStoryLength    = 50
	minCompleteLength = 100
)

// isRefusalResponse checks if a draft is empty, very short, or contains a refusal
func isRefusalResponse(text string) bool {
	if len(strings.TrimSpace(text)) < minStoryLength {
		return true
	}

	textLower := strings.ToLower(text)
	for _, pattern := range refusalPatterns {
		if strings.Contains(textLower, pattern) {
			return true
		}
	}
	return false
}

// getRefusalReason returns a description of why the draft was considered a refusal
func getRefusalReason(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minStoryLength {
		return fmt.Sprintf("response too short (< %d chars): '%s'", minStoryLength, trimmed[:min(40, len(trimmed))])
	}

	textLower := strings.ToLower(text)
	for _, pattern := range refusalPatterns {
		if strings.Contains(textLower, pattern) {
			return "contains refusal pattern: " + pattern
		}
	}
	return "unknown refusal"
}

// isIncompleteOutput checks if a draft appears to be cut off mid-sentence
func isIncompleteOutput(text string) (bool, string) {
	trimmed := strings.TrimSpace(text)

	if len(trimmed) < minCompleteLength {
		return true, fmt.Sprintf("output too short (< %d chars)", minCompleteLength)
	}

	lastChar := trimmed[len(trimmed)-1]
	switch lastChar {
	case '.', '!', '?', '"', '\'', '*':
		return false, ""
	}

	// Closing curly quotes are multi-byte
	if strings.HasSuffix(trimmed, "”") || strings.HasSuffix(trimmed, "’") {
		return false, ""
	}

	words := strings.Fields(trimmed)
	lastWord := strings.TrimRight(words[len(words)-1], ".,;:!?\"'")
	if len(lastWord) > 2 {
		lastRune := rune(lastWord[len(lastWord)-1])
		if lastRune >= 'a' && lastRune <= 'z' {
			return true, fmt.Sprintf("incomplete ending: last word '%s' suggests mid-sentence cutoff", lastWord)
		}
	}

	return true, "no terminal punctuation at end"
}
