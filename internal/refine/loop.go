// Package refine runs the evaluate / rewrite cycle between judge and storyteller.
package refine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lamim/storyforge/internal/judge"
	"github.com/lamim/storyforge/internal/metrics"
	"github.com/lamim/storyforge/pkg/models"
)

// ErrInvalidMaxIterations is returned by New when maxIterations < 1
var ErrInvalidMaxIterations = errors.New("max iterations must be at least 1")

// Evaluator scores a story
type Evaluator interface {
	Evaluate(ctx context.Context, story string) (*models.Evaluation, error)
}

// Reviser rewrites a story from feedback
type Reviser interface {
	Revise(ctx context.Context, story, request string, category models.Category, instructions string) (string, error)
}

// Loop holds configuration only; one Loop may serve concurrent Refine calls
type Loop struct {
	evaluator     Evaluator
	reviser       Reviser
	maxIterations int
	logger        *slog.Logger
	metrics       *metrics.Collector
}

// Option customizes a Loop
type Option func(*Loop)

// WithLogger sets the loop's logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger.With("component", "refine") }
}

// WithMetrics records iteration metrics
func WithMetrics(collector *metrics.Collector) Option {
	return func(l *Loop) { l.metrics = collector }
}

// New creates a loop that runs at most maxIterations evaluations per story
func New(evaluator Evaluator, reviser Reviser, maxIterations int, opts ...Option) (*Loop, error) {
	if maxIterations < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidMaxIterations, maxIterations)
	}
	l := &Loop{
		evaluator:     evaluator,
		reviser:       reviser,
		maxIterations: maxIterations,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// MaxIterations returns the evaluation cap
func (l *Loop) MaxIterations() int {
	return l.maxIterations
}

// Refine evaluates story and rewrites it until the judge's scores clear
// threshold or the evaluation cap is reached. Every evaluation is kept in
// the outcome's Records. Any evaluator or reviser error aborts the run and
// no outcome is returned.
func (l *Loop) Refine(ctx context.Context, story, request string, category models.Category, threshold float64) (*models.RefinementOutcome, error) {
	current := story
	var records []models.RefinementRecord

	for iteration := 1; ; iteration++ {
		ev, err := l.evaluator.Evaluate(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		records = append(records, models.RefinementRecord{
			Iteration:  iteration,
			Story:      current,
			Evaluation: ev,
		})

		refine := judge.ShouldRefine(ev, threshold)
		decision := decisionLabel(refine, iteration, l.maxIterations)
		l.metrics.RecordDecision(decision)
		l.logger.Info("Evaluated story",
			"iteration", iteration,
			"overall_score", ev.OverallScore,
			"scored_dimensions", scoredDimensions(ev),
			"decision", decision)

		if !refine || iteration >= l.maxIterations {
			l.metrics.RecordRefinement(iteration)
			return &models.RefinementOutcome{
				FinalStory:      current,
				FinalEvaluation: ev,
				Iterations:      iteration,
				Records:         records,
				Improved:        iteration > 1,
			}, nil
		}

		revised, err := l.reviser.Revise(ctx, current, request, category, judge.BuildInstructions(ev))
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		current = revised
	}
}

func decisionLabel(refine bool, iteration, maxIterations int) string {
	switch {
	case !refine:
		return "accept"
	case iteration >= maxIterations:
		return "cap"
	default:
		return "refine"
	}
}

func scoredDimensions(ev *models.Evaluation) int {
	n := 0
	for _, d := range ev.Dimensions {
		if d.HasScore() {
			n++
		}
	}
	return n
}
