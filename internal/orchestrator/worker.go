package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/lamim/storyforge/pkg/models"
)

type job struct {
	index   int
	request models.StoryRequest
}

type indexedResult struct {
	index  int
	result *models.StoryResult
}

// worker processes jobs until the channel closes. Once ctx is canceled the
// remaining jobs are drained as failures so every request gets a result.
func (o *Orchestrator) worker(ctx context.Context, workerID int, jobs <-chan job, results chan<- indexedResult, wg *sync.WaitGroup) {
	defer wg.Done()

	o.metrics.WorkerStarted()
	defer o.metrics.WorkerFinished()

	for j := range jobs {
		if err := ctx.Err(); err != nil {
			results <- indexedResult{index: j.index, result: &models.StoryResult{
				ID:       j.request.ID,
				Request:  j.request.Text,
				Category: j.request.Category,
				Error:    err.Error(),
			}}
			continue
		}

		startTime := time.Now()
		o.logger.Debug("Worker processing request", "worker_id", workerID, "index", j.index)

		// process never returns a nil result; its error is already on the result
		result, _ := o.process(ctx, j.request)

		o.logger.Debug("Worker finished request",
			"worker_id", workerID,
			"index", j.index,
			"duration", time.Since(startTime))

		results <- indexedResult{index: j.index, result: result}
	}
}
