package judge

import (
	"strconv"
	"strings"

	"github.com/lamim/storyforge/pkg/models"
)

// SuggestionBar is the score below which a dimension's feedback is passed to
// the rewrite. It sits at or above any sensible refinement threshold.
const SuggestionBar = 8.0

const instructionsLead = "Based on the evaluation, please improve the story by addressing the following:\n\n"

// ShouldRefine reports whether the story needs another pass. Either the
// overall score or any single scored dimension falling below threshold is
// enough; dimensions without a score are ignored.
func ShouldRefine(ev *models.Evaluation, threshold float64) bool {
	if ev.OverallScore < threshold {
		return true
	}
	for _, d := range ev.Dimensions {
		if d.Score != nil && *d.Score < threshold {
			return true
		}
	}
	return false
}

// BuildInstructions turns an evaluation into rewrite feedback. Only
// dimensions scored below SuggestionBar are included. The result always
// starts with the same lead sentence, even when nothing else qualifies.
func BuildInstructions(ev *models.Evaluation) string {
	var b strings.Builder
	b.WriteString(instructionsLead)

	for _, d := range ev.Dimensions {
		if d.Score == nil || *d.Score >= SuggestionBar {
			continue
		}
		b.WriteString(d.Name + " (Score: " + FormatScore(*d.Score) + "/10):\n")
		if d.Reasoning != "" {
			b.WriteString("Reasoning: " + d.Reasoning + "\n")
		}
		if len(d.Suggestions) > 0 {
			b.WriteString("Suggestions:\n")
			for _, s := range d.Suggestions {
				b.WriteString("- " + s + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(ev.KeyImprovements) > 0 {
		b.WriteString("Key Improvements:\n")
		for _, item := range ev.KeyImprovements {
			b.WriteString("- " + item + "\n")
		}
	}

	return b.String()
}

// FormatScore renders a score with at least one decimal place: 4 -> "4.0", 7.25 -> "7.25"
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
