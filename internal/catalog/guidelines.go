package catalog

import "strings"

var (
	vocabularyRecommended = "Use simple, clear words. Avoid complex vocabulary unless necessary, and explain new words in context."
	vocabularyAvoid       = "Jargon, overly technical terms, or words that require advanced reading comprehension"

	sentenceRecommended = "Mix short and medium sentences. Keep most sentences under 15-20 words."
	sentenceAvoid       = "Very long, complex sentences with multiple clauses"

	recommendedThemes = []string{
		"Friendship and helping others",
		"Being brave and trying new things",
		"Solving problems creatively",
		"Learning from mistakes",
		"Kindness and empathy",
		"Working together",
		"Being yourself",
	}
	avoidedThemes = []string{
		"Scary or frightening content",
		"Violence or conflict without resolution",
		"Complex emotional themes beyond a child's understanding",
		"Negative stereotypes",
		"Inappropriate or mature content",
	}

	lengthTarget    = "500-1000 words for a complete bedtime story"
	lengthStructure = "3-5 paragraphs per section, keeping each paragraph focused on one idea"
)

// AgeGuidelines returns the ages 5-10 guidelines block shared by every prompt
func AgeGuidelines() string {
	var b strings.Builder
	b.WriteString("AGE-APPROPRIATENESS GUIDELINES (Ages 5-10):\n\n")

	b.WriteString("VOCABULARY:\n")
	b.WriteString("- Recommended: " + vocabularyRecommended + "\n")
	b.WriteString("- Avoid: " + vocabularyAvoid + "\n\n")

	b.WriteString("SENTENCE STRUCTURE:\n")
	b.WriteString("- Recommended: " + sentenceRecommended + "\n")
	b.WriteString("- Avoid: " + sentenceAvoid + "\n\n")

	b.WriteString("APPROPRIATE THEMES:\n")
	for _, theme := range recommendedThemes {
		b.WriteString("- " + theme + "\n")
	}

	b.WriteString("\nTHEMES TO AVOID:\n")
	for _, theme := range avoidedThemes {
		b.WriteString("- " + theme + "\n")
	}

	b.WriteString("\nSTORY LENGTH:\n")
	b.WriteString("- Target: " + lengthTarget + "\n")
	b.WriteString("- Structure: " + lengthStructure + "\n")

	return b.String()
}
