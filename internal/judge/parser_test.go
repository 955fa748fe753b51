package judge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluation_WellFormed(t *testing.T) {
	text := `DIMENSION: Age-appropriateness
SCORE: 9/10
REASONING: Simple words throughout.
SUGGESTIONS: No major improvements needed

DIMENSION: Narrative coherence
SCORE: 6/10
REASONING: The middle jumps ahead.
SUGGESTIONS: Add a scene showing how the owl finds the path

DIMENSION: Character development
SCORE: 8/10
REASONING: Pip changes in a believable way.
SUGGESTIONS: No major improvements needed

OVERALL_ASSESSMENT:
A gentle story with a small pacing issue.

SUMMARY_OF_KEY_IMPROVEMENTS:
- Smooth the transition in the middle`

	ev := ParseEvaluation(text)

	require.Len(t, ev.Dimensions, 3)
	assert.InDelta(t, 23.0/3.0, ev.OverallScore, 1e-9)
	assert.GreaterOrEqual(t, ev.OverallScore, 1.0)
	assert.LessOrEqual(t, ev.OverallScore, 10.0)
	assert.True(t, ev.HasOverallScore())

	want := []struct {
		name  string
		score float64
	}{
		{"Age-appropriateness", 9},
		{"Narrative coherence", 6},
		{"Character development", 8},
	}
	for i, w := range want {
		d := ev.Dimensions[i]
		assert.Equal(t, w.name, d.Name)
		require.NotNil(t, d.Score, w.name)
		assert.Equal(t, w.score, *d.Score)
	}

	coherence, ok := ev.Dimension("Narrative coherence")
	require.True(t, ok)
	assert.Equal(t, "The middle jumps ahead.", coherence.Reasoning)
	assert.Equal(t, []string{"Add a scene showing how the owl finds the path"}, coherence.Suggestions)

	assert.Equal(t, "A gentle story with a small pacing issue.", ev.OverallAssessment)
	assert.Equal(t, []string{"Smooth the transition in the middle"}, ev.KeyImprovements)
	assert.Equal(t, text, ev.RawText)
}

func TestParseEvaluation_NoMarkers(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "I liked this story a lot.\nIt was lovely."} {
		ev := ParseEvaluation(text)

		assert.Empty(t, ev.Dimensions)
		assert.Equal(t, 0.0, ev.OverallScore)
		assert.False(t, ev.HasOverallScore())
		assert.Empty(t, ev.OverallAssessment)
		assert.Empty(t, ev.KeyImprovements)
		assert.Equal(t, text, ev.RawText)
	}
}

func TestParseEvaluation_MalformedScore(t *testing.T) {
	text := `DIMENSION: Engagement level
SCORE: abc/10
REASONING: Hard to tell.
DIMENSION: Character development
SCORE: 7/10`

	ev := ParseEvaluation(text)

	require.Len(t, ev.Dimensions, 2)
	assert.Nil(t, ev.Dimensions[0].Score)
	assert.Equal(t, "Hard to tell.", ev.Dimensions[0].Reasoning)
	require.NotNil(t, ev.Dimensions[1].Score)
	assert.Equal(t, 7.0, *ev.Dimensions[1].Score)
	assert.Equal(t, 7.0, ev.OverallScore)
}

func TestParseEvaluation_ScoreForms(t *testing.T) {
	tests := []struct {
		line string
		want *float64
	}{
		{"SCORE: 8/10", ptr(8)},
		{"SCORE: 7.5 / 10", ptr(7.5)},
		{"SCORE: 9", ptr(9)},
		{"score: 6/10", ptr(6)},
		{"SCORE: 0/10", ptr(0)},
		{"SCORE: NaN/10", nil},
		{"SCORE: Inf", nil},
		{"SCORE: 11/10", nil},
		{"SCORE: -2/10", nil},
		{"SCORE:", nil},
		{"SCORE: eight out of ten", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev := ParseEvaluation("DIMENSION: Clarity\n" + tt.line)
			require.Len(t, ev.Dimensions, 1)
			if tt.want == nil {
				assert.Nil(t, ev.Dimensions[0].Score)
				return
			}
			require.NotNil(t, ev.Dimensions[0].Score)
			assert.Equal(t, *tt.want, *ev.Dimensions[0].Score)
		})
	}
}

func TestParseEvaluation_OutOfScaleScoreTreatedAsMissing(t *testing.T) {
	ev := ParseEvaluation("DIMENSION: Engagement level\nSCORE: 12/10\nREASONING: Wonderful.")
	require.Len(t, ev.Dimensions, 1)
	assert.Nil(t, ev.Dimensions[0].Score)
	assert.False(t, ev.HasOverallScore())
	assert.Equal(t, 0.0, ev.OverallScore)
	assert.True(t, ShouldRefine(ev, 7.0))

	ev = ParseEvaluation("DIMENSION: A\nSCORE: 12/10\nDIMENSION: B\nSCORE: 8/10")
	assert.Equal(t, 8.0, ev.OverallScore)
	assert.False(t, ShouldRefine(ev, 7.0))
}

func TestParseEvaluation_SuggestionSentinel(t *testing.T) {
	ev := ParseEvaluation("DIMENSION: A\nSCORE: 9/10\nSUGGESTIONS: No major improvements needed")
	require.Len(t, ev.Dimensions, 1)
	assert.Empty(t, ev.Dimensions[0].Suggestions)

	ev = ParseEvaluation("DIMENSION: A\nSCORE: 5/10\nSUGGESTIONS: Add more dialogue")
	require.Len(t, ev.Dimensions, 1)
	assert.Equal(t, []string{"Add more dialogue"}, ev.Dimensions[0].Suggestions)

	ev = ParseEvaluation("DIMENSION: A\nSUGGESTIONS: No major improvements needed.\nno major changes")
	assert.Empty(t, ev.Dimensions[0].Suggestions)
}

func TestParseEvaluation_NoMajorFeedbackKeptOnMarkerLine(t *testing.T) {
	text := `DIMENSION: Engagement level
SCORE: 5/10
REASONING: Flat.
SUGGESTIONS: No major conflict happens; give the bunny a small problem to solve
`
	ev := ParseEvaluation(text)
	require.Len(t, ev.Dimensions, 1)
	assert.Equal(t, []string{"No major conflict happens; give the bunny a small problem to solve"}, ev.Dimensions[0].Suggestions)
	assert.Contains(t, BuildInstructions(ev), "- No major conflict happens; give the bunny a small problem to solve")

	for _, sentinel := range []string{"NO MAJOR IMPROVEMENTS NEEDED!", "- No major improvements needed."} {
		ev = ParseEvaluation("DIMENSION: A\nSCORE: 9/10\nSUGGESTIONS: " + sentinel)
		assert.Empty(t, ev.Dimensions[0].Suggestions, sentinel)
	}
}

func TestParseEvaluation_SuggestionContinuation(t *testing.T) {
	text := `DIMENSION: Engagement level
SCORE: 5/10
SUGGESTIONS:
- Add a sound the owl makes
* Give the moon a voice
- Add a sound the owl makes
• End with a lullaby`

	ev := ParseEvaluation(text)

	require.Len(t, ev.Dimensions, 1)
	assert.Equal(t, []string{
		"Add a sound the owl makes",
		"Give the moon a voice",
		"End with a lullaby",
	}, ev.Dimensions[0].Suggestions)
}

func TestParseEvaluation_ReasoningContinuation(t *testing.T) {
	text := `DIMENSION: Narrative coherence
REASONING: The story starts well.

It loses track in the middle.
SCORE: 6/10
This line is discarded.`

	ev := ParseEvaluation(text)

	require.Len(t, ev.Dimensions, 1)
	assert.Equal(t, "The story starts well. It loses track in the middle.", ev.Dimensions[0].Reasoning)

	ev = ParseEvaluation("DIMENSION: A\nREASONING:\nfirst line\nREASONING: replaced")
	assert.Equal(t, "replaced", ev.Dimensions[0].Reasoning)
}

func TestParseEvaluation_MarkerOnlyAtLineStart(t *testing.T) {
	text := `SCORE: 3/10
DIMENSION: Clarity
REASONING: The word SCORE: appears here but is just text.
The DIMENSION: keyword mid-line is not a marker.`

	ev := ParseEvaluation(text)

	require.Len(t, ev.Dimensions, 1)
	assert.Nil(t, ev.Dimensions[0].Score, "a score before any dimension is dropped")
	assert.Equal(t,
		"The word SCORE: appears here but is just text. The DIMENSION: keyword mid-line is not a marker.",
		ev.Dimensions[0].Reasoning)
	assert.False(t, ev.HasOverallScore())
}

func TestParseEvaluation_RedeclaredDimensionResets(t *testing.T) {
	text := `DIMENSION: A
SCORE: 4/10
SUGGESTIONS: Fix A
DIMENSION: B
SCORE: 8/10
DIMENSION: A
REASONING: Second look.`

	ev := ParseEvaluation(text)

	require.Len(t, ev.Dimensions, 2)
	assert.Equal(t, "A", ev.Dimensions[0].Name)
	assert.Nil(t, ev.Dimensions[0].Score)
	assert.Empty(t, ev.Dimensions[0].Suggestions)
	assert.Equal(t, "Second look.", ev.Dimensions[0].Reasoning)
	assert.Equal(t, 8.0, ev.OverallScore)
}

func TestParseEvaluation_OverallAndImprovements(t *testing.T) {
	text := `DIMENSION: A
SCORE: 7/10
Overall Assessment: ignored trailing text
  The story is sweet.
  It ends well.

KEY IMPROVEMENTS:
- Shorter sentences
Use the child's name more`

	ev := ParseEvaluation(text)

	assert.Equal(t, "The story is sweet. It ends well.", ev.OverallAssessment)
	assert.Equal(t, []string{"Shorter sentences", "Use the child's name more"}, ev.KeyImprovements)
}

func TestParseEvaluation_WindowsLineEndings(t *testing.T) {
	text := strings.ReplaceAll("DIMENSION: A\nSCORE: 8/10\nREASONING: Fine.\n", "\n", "\r\n")

	ev := ParseEvaluation(text)

	require.Len(t, ev.Dimensions, 1)
	require.NotNil(t, ev.Dimensions[0].Score)
	assert.Equal(t, 8.0, *ev.Dimensions[0].Score)
	assert.Equal(t, "Fine.", ev.Dimensions[0].Reasoning)
}

func ptr(v float64) *float64 {
	return &v
}
