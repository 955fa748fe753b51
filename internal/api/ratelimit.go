package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterPool manages per-model rate limiters
type RateLimiterPool struct {
	limiters map[string]*rate.Limiter
	rates    map[string]int // Track original rates for consistency check
	mu       sync.Mutex
}

// NewRateLimiterPool creates a new rate limiter pool
func NewRateLimiterPool() *RateLimiterPool {
	return &RateLimiterPool{
		limiters: make(map[string]*rate.Limiter),
		rates:    make(map[string]int),
	}
}

// GetOrCreate returns an existing rate limiter or creates a new one.
// A non-positive rate means unlimited. The first rate registered for a model wins.
func (p *RateLimiterPool) GetOrCreate(modelID string, requestsPerMinute int) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists := p.limiters[modelID]; exists {
		if existingRate := p.rates[modelID]; existingRate != requestsPerMinute {
			slog.Warn("Rate limiter already exists with different rate, using existing rate",
				"model_id", modelID,
				"existing_rpm", existingRate,
				"requested_rpm", requestsPerMinute)
		}
		return limiter
	}

	var limiter *rate.Limiter
	if requestsPerMinute <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	} else {
		// Burst of a tenth of the per-minute budget so a batch can start promptly
		burst := max(1, requestsPerMinute/10)
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
	}
	p.limiters[modelID] = limiter
	p.rates[modelID] = requestsPerMinute

	slog.Debug("Created rate limiter",
		"model_id", modelID,
		"rpm", requestsPerMinute,
		"burst", limiter.Burst())

	return limiter
}

// Wait blocks until the rate limiter allows the next request and reports how long it waited
func (p *RateLimiterPool) Wait(ctx context.Context, modelID string, requestsPerMinute int) (time.Duration, error) {
	limiter := p.GetOrCreate(modelID, requestsPerMinute)
	start := time.Now()
	err := limiter.Wait(ctx)
	return time.Since(start), err
}
