package refine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamim/storyforge/internal/judge"
	"github.com/lamim/storyforge/pkg/models"
)

// scriptedEvaluator returns parsed judge output in order, repeating the last one
type scriptedEvaluator struct {
	responses []string
	failOn    int // 1-based call number that fails, 0 for never
	stories   []string
}

func (e *scriptedEvaluator) Evaluate(_ context.Context, story string) (*models.Evaluation, error) {
	e.stories = append(e.stories, story)
	call := len(e.stories)
	if call == e.failOn {
		return nil, errJudgeDown
	}
	idx := min(call-1, len(e.responses)-1)
	return judge.ParseEvaluation(e.responses[idx]), nil
}

type reviseCall struct {
	story, request, instructions string
	category                     models.Category
}

type recordingReviser struct {
	calls []reviseCall
	err   error
}

func (r *recordingReviser) Revise(_ context.Context, story, request string, category models.Category, instructions string) (string, error) {
	r.calls = append(r.calls, reviseCall{story: story, request: request, instructions: instructions, category: category})
	if r.err != nil {
		return "", r.err
	}
	return fmt.Sprintf("revision %d", len(r.calls)), nil
}

var errJudgeDown = errors.New("judge unavailable")

func fiveAxes(firstScore string, firstSuggestion string) string {
	var b strings.Builder
	for i, name := range judge.Dimensions {
		score, suggestion := "9/10", "No major improvements needed."
		if i == 0 {
			score, suggestion = firstScore, firstSuggestion
		}
		fmt.Fprintf(&b, "DIMENSION: %s\nSCORE: %s\nREASONING: Clear.\nSUGGESTIONS: %s\n\n", name, score, suggestion)
	}
	return b.String()
}

var (
	passing = fiveAxes("9/10", "No major improvements needed.")
	failing = fiveAxes("4/10", "Simplify vocabulary")
)

func TestNew_RejectsInvalidMaxIterations(t *testing.T) {
	for _, n := range []int{0, -1} {
		loop, err := New(&scriptedEvaluator{}, &recordingReviser{}, n)
		assert.Nil(t, loop)
		assert.ErrorIs(t, err, ErrInvalidMaxIterations)
	}
}

func TestRefine_AcceptsFirstDraft(t *testing.T) {
	eval := &scriptedEvaluator{responses: []string{passing}}
	rev := &recordingReviser{}
	loop, err := New(eval, rev, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, loop.MaxIterations())

	out, err := loop.Refine(context.Background(), "draft", "a bunny story", models.CategoryAnimals, 7.0)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Iterations)
	assert.False(t, out.Improved)
	assert.Equal(t, "draft", out.FinalStory)
	assert.Len(t, eval.stories, 1)
	assert.Empty(t, rev.calls)
	require.Len(t, out.Records, 1)
	assert.Same(t, out.FinalEvaluation, out.Records[0].Evaluation)
}

func TestRefine_StopsAtCap(t *testing.T) {
	for n := 1; n <= 4; n++ {
		t.Run(fmt.Sprintf("max_%d", n), func(t *testing.T) {
			eval := &scriptedEvaluator{responses: []string{failing}}
			rev := &recordingReviser{}
			loop, err := New(eval, rev, n)
			require.NoError(t, err)

			out, err := loop.Refine(context.Background(), "draft", "req", models.CategoryMixed, 7.0)
			require.NoError(t, err)

			assert.Equal(t, n, out.Iterations)
			assert.Len(t, eval.stories, n)
			assert.Len(t, rev.calls, n-1)
			assert.Len(t, out.Records, n)
			assert.Equal(t, n > 1, out.Improved)
			assert.True(t, judge.ShouldRefine(out.FinalEvaluation, 7.0), "cap returns the last story even if it still fails")
		})
	}
}

func TestRefine_ImprovesThenAccepts(t *testing.T) {
	eval := &scriptedEvaluator{responses: []string{failing, passing}}
	rev := &recordingReviser{}
	loop, err := New(eval, rev, 5)
	require.NoError(t, err)

	out, err := loop.Refine(context.Background(), "draft", "a bunny story", models.CategoryAnimals, 7.0)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Iterations)
	assert.True(t, out.Improved)
	assert.Equal(t, "revision 1", out.FinalStory)
	assert.Equal(t, []string{"draft", "revision 1"}, eval.stories)

	require.Len(t, out.Records, 2)
	assert.Equal(t, 1, out.Records[0].Iteration)
	assert.Equal(t, "draft", out.Records[0].Story)
	assert.Equal(t, 2, out.Records[1].Iteration)
	assert.Equal(t, "revision 1", out.Records[1].Story)

	require.Len(t, rev.calls, 1)
	call := rev.calls[0]
	assert.Equal(t, "draft", call.story)
	assert.Equal(t, "a bunny story", call.request)
	assert.Equal(t, models.CategoryAnimals, call.category)
	assert.Equal(t, judge.BuildInstructions(out.Records[0].Evaluation), call.instructions)
	assert.Contains(t, call.instructions, "Simplify vocabulary")
}

func TestRefine_UnparseableEvaluationStillRegenerates(t *testing.T) {
	eval := &scriptedEvaluator{responses: []string{"no structure at all", passing}}
	rev := &recordingReviser{}
	loop, err := New(eval, rev, 2)
	require.NoError(t, err)

	out, err := loop.Refine(context.Background(), "draft", "req", models.CategoryMixed, 7.0)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Iterations)
	require.Len(t, rev.calls, 1)
	assert.Equal(t, "Based on the evaluation, please improve the story by addressing the following:\n\n", rev.calls[0].instructions)
}

func TestRefine_EvaluatorErrorAborts(t *testing.T) {
	eval := &scriptedEvaluator{responses: []string{failing}, failOn: 2}
	rev := &recordingReviser{}
	loop, err := New(eval, rev, 3)
	require.NoError(t, err)

	out, err := loop.Refine(context.Background(), "draft", "req", models.CategoryMixed, 7.0)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, errJudgeDown)
	assert.Len(t, rev.calls, 1)
}

func TestRefine_ReviserErrorAborts(t *testing.T) {
	boom := errors.New("storyteller unavailable")
	eval := &scriptedEvaluator{responses: []string{failing}}
	loop, err := New(eval, &recordingReviser{err: boom}, 3)
	require.NoError(t, err)

	out, err := loop.Refine(context.Background(), "draft", "req", models.CategoryMixed, 7.0)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, eval.stories, 1)
}

func TestDecisionLabel(t *testing.T) {
	assert.Equal(t, "accept", decisionLabel(false, 1, 2))
	assert.Equal(t, "refine", decisionLabel(true, 1, 2))
	assert.Equal(t, "cap", decisionLabel(true, 2, 2))
}
