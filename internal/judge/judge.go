package judge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/catalog"
	"github.com/lamim/storyforge/internal/metrics"
	"github.com/lamim/storyforge/internal/util"
	"github.com/lamim/storyforge/pkg/models"
)

// Dimensions are the axes the default evaluation prompt asks for
var Dimensions = []string{
	"Age-appropriateness",
	"Narrative coherence",
	"Character development",
	"Engagement level",
	"Educational/moral value",
}

// Options configures the judge call
type Options struct {
	Template     string // {guidelines}, {story}
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Judge scores stories with an LLM and parses the result
type Judge struct {
	gen     api.Generator
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a new judge. collector may be nil.
func New(gen api.Generator, opts Options, logger *slog.Logger, collector *metrics.Collector) *Judge {
	return &Judge{
		gen:     gen,
		opts:    opts,
		logger:  logger.With("component", "judge"),
		metrics: collector,
	}
}

// Evaluate sends a story to the judge model and parses its feedback.
// Only the model call can fail; unreadable feedback yields an empty Evaluation.
func (j *Judge) Evaluate(ctx context.Context, story string) (*models.Evaluation, error) {
	prompt := util.Format(j.opts.Template, map[string]string{
		"guidelines": catalog.AgeGuidelines(),
		"story":      story,
	}, nil, "")

	resp, err := j.gen.Generate(ctx, api.GenerateParams{
		Prompt:        prompt,
		SystemMessage: j.opts.SystemPrompt,
		MaxTokens:     j.opts.MaxTokens,
		Temperature:   j.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate story: %w", err)
	}

	j.logger.Debug("Received judge response",
		"length", len(resp),
		"has_think_tags", util.ContainsThinkTags(resp),
		"first_200_chars", util.TruncateString(resp, 200))

	ev := ParseEvaluation(util.StripThinkTags(resp))
	ev.RawText = resp

	if len(ev.Dimensions) == 0 {
		j.logger.Warn("Judge response contained no dimensions", "response_length", len(resp))
	}

	for _, d := range ev.Dimensions {
		if d.Score != nil {
			j.metrics.RecordScore(metricLabel(d.Name), *d.Score)
		}
	}
	if ev.HasOverallScore() {
		j.metrics.RecordScore("overall", ev.OverallScore)
	}

	return ev, nil
}

// metricLabel keeps the score metric's label set bounded to known dimensions
func metricLabel(name string) string {
	for _, d := range Dimensions {
		if strings.EqualFold(d, name) {
			return d
		}
	}
	return "other"
}
