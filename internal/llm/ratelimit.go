package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter implements a simple token bucket rate limiter.
type rateLimiter struct {
	stopCh     chan struct{}
	tokens     int
	capacity   int
	refillRate int
	mu         sync.Mutex
	once       sync.Once
}

// newRateLimiter creates a new rate limiter with the specified requests per minute.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	rl := &rateLimiter{
		tokens:     requestsPerMinute,
		capacity:   requestsPerMinute,
		refillRate: requestsPerMinute,
		stopCh:     make(chan struct{}),
	}

	go rl.refill()

	return rl
}

// wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if rl.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// tryAcquire attempts to acquire a token without blocking.
func (rl *rateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// refill periodically adds tokens to the bucket.
func (rl *rateLimiter) refill() {
	ticker := time.NewTicker(time.Minute / time.Duration(rl.refillRate))
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			if rl.tokens < rl.capacity {
				rl.tokens++
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the refill goroutine.
func (rl *rateLimiter) Close() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// RateLimitedGenerator throttles calls to a wrapped Generator so that every
// task sharing it stays under one request budget.
type RateLimitedGenerator struct {
	next    Generator
	limiter *rateLimiter
}

// NewRateLimitedGenerator wraps next with a limit of requestsPerMinute.
func NewRateLimitedGenerator(next Generator, requestsPerMinute int) *RateLimitedGenerator {
	return &RateLimitedGenerator{next: next, limiter: newRateLimiter(requestsPerMinute)}
}

// Generate waits for a token and then delegates.
func (g *RateLimitedGenerator) Generate(ctx context.Context, modelID, prompt string, opts GenerateOptions) (string, error) {
	if err := g.limiter.wait(ctx); err != nil {
		return "", err
	}
	return g.next.Generate(ctx, modelID, prompt, opts)
}

// ListModels delegates when the wrapped generator can list models.
func (g *RateLimitedGenerator) ListModels(ctx context.Context) ([]ModelInfo, error) {
	lister, ok := g.next.(ModelLister)
	if !ok {
		return nil, fmt.Errorf("provider cannot list models")
	}
	if err := g.limiter.wait(ctx); err != nil {
		return nil, err
	}
	return lister.ListModels(ctx)
}

// Close releases the limiter.
func (g *RateLimitedGenerator) Close() {
	g.limiter.Close()
}
