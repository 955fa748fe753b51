package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Model call metrics
	modelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_model_request_duration_seconds",
			Help:    "Model request duration in seconds by model",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
		},
		[]string{"model", "status"},
	)

	rateLimiterWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_rate_limiter_wait_duration_seconds",
			Help:    "Rate limiter wait duration in seconds by model",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~32s
		},
		[]string{"model"},
	)

	// Pipeline metrics
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~500s
		},
		[]string{"stage"}, // "categorize", "draft", "refine", "total"
	)

	storiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_stories_total",
			Help: "Total number of story requests processed",
		},
		[]string{"category", "status"},
	)

	activeWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_active_workers",
			Help: "Number of workers currently processing a request",
		},
	)

	// Refinement metrics
	refinementIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storyforge_refinement_iterations",
			Help:    "Number of evaluations run per refinement",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	refinementDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_refinement_decisions_total",
			Help: "Refinement loop decisions after each evaluation",
		},
		[]string{"decision"}, // "accept", "refine", "cap"
	)

	evaluationScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_evaluation_score",
			Help:    "Judge scores by dimension; \"overall\" is the dimension mean",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"dimension"},
	)
)

// Collector provides convenience methods for recording metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	logger *slog.Logger
}

// NewCollector creates a new metrics collector
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{
		logger: logger,
	}
}

// RecordModelRequest records a model request duration
func (c *Collector) RecordModelRequest(model string, duration time.Duration, success bool) {
	if c == nil {
		return
	}
	modelRequestDuration.WithLabelValues(model, statusLabel(success)).Observe(duration.Seconds())
}

// RecordRateLimiterWait records rate limiter wait time
func (c *Collector) RecordRateLimiterWait(model string, duration time.Duration) {
	if c == nil {
		return
	}
	rateLimiterWaitDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordStage records pipeline stage duration
func (c *Collector) RecordStage(stage string, duration time.Duration) {
	if c == nil {
		return
	}
	stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// IncrementStories counts a finished story request
func (c *Collector) IncrementStories(category string, success bool) {
	if c == nil {
		return
	}
	storiesTotal.WithLabelValues(category, statusLabel(success)).Inc()
}

// WorkerStarted and WorkerFinished track busy batch workers
func (c *Collector) WorkerStarted() {
	if c == nil {
		return
	}
	activeWorkers.Inc()
}

func (c *Collector) WorkerFinished() {
	if c == nil {
		return
	}
	activeWorkers.Dec()
}

// RecordDecision counts one refinement loop decision
func (c *Collector) RecordDecision(decision string) {
	if c == nil {
		return
	}
	refinementDecisions.WithLabelValues(decision).Inc()
}

// RecordRefinement records the evaluation count of a finished refinement
func (c *Collector) RecordRefinement(iterations int) {
	if c == nil {
		return
	}
	refinementIterations.Observe(float64(iterations))
}

// RecordScore records one judge score
func (c *Collector) RecordScore(dimension string, score float64) {
	if c == nil {
		return
	}
	evaluationScore.WithLabelValues(dimension).Observe(score)
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// Server exposes the default Prometheus registry over HTTP
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates a /metrics server listening on addr (e.g. ":2112")
func NewServer(addr string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves metrics in the background
func (s *Server) Start() {
	go func() {
		s.logger.Info("Metrics server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
