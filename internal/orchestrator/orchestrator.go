package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/lamim/storyforge/internal/config"
	"github.com/lamim/storyforge/internal/metrics"
	"github.com/lamim/storyforge/pkg/models"
)

// Classifier assigns a category to a story request
type Classifier interface {
	Categorize(ctx context.Context, request string) (models.Category, string, error)
}

// Drafter writes the first draft of a story
type Drafter interface {
	Generate(ctx context.Context, request string, category models.Category) (string, error)
}

// Refiner runs the judge / rewrite cycle on a draft
type Refiner interface {
	Refine(ctx context.Context, story, request string, category models.Category, threshold float64) (*models.RefinementOutcome, error)
}

// ResultSink receives every finished result, failed ones included
type ResultSink interface {
	WriteResult(result models.StoryResult) error
}

// Options configures an Orchestrator
type Options struct {
	Threshold    float64
	Concurrency  int
	ShowProgress bool
}

// Orchestrator coordinates categorization, drafting and refinement
type Orchestrator struct {
	classifier Classifier
	drafter    Drafter
	refiner    Refiner // nil skips refinement
	sink       ResultSink
	opts       Options
	logger     *slog.Logger
	metrics    *metrics.Collector

	mu    sync.Mutex
	stats *models.SessionStats
}

// New creates a new orchestrator. refiner and sink may be nil.
func New(classifier Classifier, drafter Drafter, refiner Refiner, sink ResultSink, opts Options, logger *slog.Logger, collector *metrics.Collector) *Orchestrator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Orchestrator{
		classifier: classifier,
		drafter:    drafter,
		refiner:    refiner,
		sink:       sink,
		opts:       opts,
		logger:     logger.With("component", "orchestrator"),
		metrics:    collector,
		stats: &models.SessionStats{
			StartTime: time.Now(),
		},
	}
}

// Run processes a single request. Any stage failure aborts the request and
// no partial result is returned; the failure is still counted and sent to
// the sink.
func (o *Orchestrator) Run(ctx context.Context, req models.StoryRequest) (*models.StoryResult, error) {
	result, err := o.process(ctx, req)
	o.record(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RunBatch processes requests with a bounded worker pool. Per-request
// failures are recorded on their results and do not stop the batch.
// Results come back in request order.
func (o *Orchestrator) RunBatch(ctx context.Context, reqs []models.StoryRequest) []*models.StoryResult {
	o.logger.Info("Starting batch",
		"requests", len(reqs),
		"concurrency", o.opts.Concurrency)

	jobs := make(chan job, len(reqs))
	results := make(chan indexedResult, len(reqs))

	var wg sync.WaitGroup
	for i := 0; i < o.opts.Concurrency; i++ {
		wg.Add(1)
		go o.worker(ctx, i, jobs, results, &wg)
	}

	for i, req := range reqs {
		jobs <- job{index: i, request: req}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := o.collectResults(results, len(reqs))

	o.mu.Lock()
	o.stats.EndTime = time.Now()
	o.mu.Unlock()

	stats := o.GetStats()
	o.logger.Info("Batch complete",
		"success", stats.SuccessCount,
		"failed", stats.FailureCount,
		"refined", stats.RefinedCount,
		"duration", stats.EndTime.Sub(stats.StartTime))

	return out
}

// collectResults gathers worker output and drives the progress bar
func (o *Orchestrator) collectResults(results <-chan indexedResult, total int) []*models.StoryResult {
	var bar *progressbar.ProgressBar
	if o.opts.ShowProgress {
		bar = progressbar.Default(int64(total), "Writing stories")
	} else {
		bar = progressbar.DefaultSilent(int64(total), "Writing stories")
	}

	out := make([]*models.StoryResult, total)
	for r := range results {
		out[r.index] = r.result
		o.record(r.result)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return out
}

// process runs the pipeline and always returns a result describing the request
func (o *Orchestrator) process(ctx context.Context, req models.StoryRequest) (*models.StoryResult, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	result := &models.StoryResult{
		ID:       req.ID,
		Request:  req.Text,
		Category: req.Category,
	}

	err := o.pipeline(ctx, req, result)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		o.metrics.IncrementStories(string(result.Category), false)
		o.logger.Error("Story request failed", "id", req.ID, "error", err)
		return result, err
	}

	o.metrics.IncrementStories(string(result.Category), true)
	o.logger.Info("Story complete",
		"id", req.ID,
		"category", result.Category,
		"iterations", iterations(result),
		"duration", result.Duration)
	return result, nil
}

func (o *Orchestrator) pipeline(ctx context.Context, req models.StoryRequest, result *models.StoryResult) error {
	if err := config.ValidateRequest(req.Text); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	if result.Category == "" {
		stageStart := time.Now()
		category, explanation, err := o.classifier.Categorize(ctx, req.Text)
		o.metrics.RecordStage("categorize", time.Since(stageStart))
		if err != nil {
			return err
		}
		result.Category = category
		result.CategoryExplanation = explanation
	}

	stageStart := time.Now()
	draft, err := o.drafter.Generate(ctx, req.Text, result.Category)
	o.metrics.RecordStage("draft", time.Since(stageStart))
	if err != nil {
		return err
	}
	result.FirstDraft = draft
	o.checkDraft(req.ID, draft)

	if o.refiner == nil {
		return nil
	}

	stageStart = time.Now()
	outcome, err := o.refiner.Refine(ctx, draft, req.Text, result.Category, o.opts.Threshold)
	o.metrics.RecordStage("refine", time.Since(stageStart))
	if err != nil {
		return fmt.Errorf("failed to refine story: %w", err)
	}
	result.Outcome = outcome
	return nil
}

// checkDraft logs drafts that look like refusals or cut-off output. The judge
// still sees them; flagging is informational.
func (o *Orchestrator) checkDraft(id, draft string) {
	if isRefusalResponse(draft) {
		o.logger.Warn("Draft looks like a refusal", "id", id, "reason", getRefusalReason(draft))
		return
	}
	if incomplete, reason := isIncompleteOutput(draft); incomplete {
		o.logger.Warn("Draft may be incomplete", "id", id, "reason", reason)
	}
}

// record updates session statistics and forwards the result to the sink
func (o *Orchestrator) record(result *models.StoryResult) {
	o.mu.Lock()
	o.stats.TotalRequests++
	if result.Error == "" {
		o.stats.SuccessCount++
	} else {
		o.stats.FailureCount++
	}
	if result.Outcome != nil && result.Outcome.Improved {
		o.stats.RefinedCount++
	}
	o.stats.TotalDuration += result.Duration
	o.stats.AverageDuration = o.stats.TotalDuration / time.Duration(o.stats.TotalRequests)
	o.mu.Unlock()

	if o.sink == nil {
		return
	}
	if err := o.sink.WriteResult(*result); err != nil {
		o.logger.Warn("Failed to write result", "id", result.ID, "error", err)
	}
}

// GetStats returns a copy of the current session statistics
func (o *Orchestrator) GetStats() *models.SessionStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	stats := *o.stats
	if stats.EndTime.IsZero() {
		stats.EndTime = time.Now()
	}
	return &stats
}

func iterations(result *models.StoryResult) int {
	if result.Outcome == nil {
		return 0
	}
	return result.Outcome.Iterations
}
