package judge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/config"
)

type stubGenerator struct {
	response string
	err      error
	calls    []api.GenerateParams
}

func (s *stubGenerator) Generate(_ context.Context, p api.GenerateParams) (string, error) {
	s.calls = append(s.calls, p)
	return s.response, s.err
}

func newTestJudge(gen api.Generator) *Judge {
	return New(gen, Options{
		Template:     config.GetDefaultEvaluationTemplate(),
		SystemPrompt: "You are a fair judge.",
		Temperature:  0.2,
		MaxTokens:    1500,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestEvaluate_BuildsPromptAndParses(t *testing.T) {
	raw := "<think>Let me score this.</think>\nDIMENSION: Engagement level\nSCORE: 6/10\nREASONING: Slow start."
	gen := &stubGenerator{response: raw}
	j := newTestJudge(gen)

	ev, err := j.Evaluate(context.Background(), "Once upon a time, an owl could not sleep.")
	require.NoError(t, err)

	require.Len(t, gen.calls, 1)
	call := gen.calls[0]
	assert.Contains(t, call.Prompt, "Once upon a time, an owl could not sleep.")
	assert.Contains(t, call.Prompt, "AGE-APPROPRIATENESS GUIDELINES (Ages 5-10):")
	assert.NotContains(t, call.Prompt, "{story}")
	assert.NotContains(t, call.Prompt, "{guidelines}")
	assert.Equal(t, "You are a fair judge.", call.SystemMessage)
	assert.Equal(t, 0.2, call.Temperature)
	assert.Equal(t, 1500, call.MaxTokens)

	require.Len(t, ev.Dimensions, 1)
	assert.Equal(t, 6.0, ev.OverallScore)
	assert.Equal(t, "Slow start.", ev.Dimensions[0].Reasoning)
	assert.Equal(t, raw, ev.RawText)
}

func TestEvaluate_UnparseableResponseIsNotAnError(t *testing.T) {
	j := newTestJudge(&stubGenerator{response: "I cannot evaluate this."})

	ev, err := j.Evaluate(context.Background(), "story")
	require.NoError(t, err)
	assert.Empty(t, ev.Dimensions)
	assert.False(t, ev.HasOverallScore())
}

func TestEvaluate_PropagatesModelError(t *testing.T) {
	boom := errors.New("connection reset")
	j := newTestJudge(&stubGenerator{err: boom})

	ev, err := j.Evaluate(context.Background(), "story")
	assert.Nil(t, ev)
	assert.ErrorIs(t, err, boom)
}

func TestMetricLabel(t *testing.T) {
	assert.Equal(t, "Engagement level", metricLabel("engagement level"))
	assert.Equal(t, "other", metricLabel("Sparkle"))
}
