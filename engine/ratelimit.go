package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter controls the rate of engine calls using a token bucket.
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // maximum requests per minute
	BurstSize         int // maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens:     burst, // start with a full bucket
		maxTokens:  burst,
		refillRate: rpm / 60.0,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.TryAcquire() {
			return nil
		}

		r.mu.Lock()
		waitTime := time.Duration(float64(time.Second) / r.refillRate)
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// TryAcquire attempts to acquire a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()

	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// refill adds tokens based on elapsed time (must be called with lock held).
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.lastRefill = now

	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedEngine wraps an Engine with rate limiting. Several engines may
// share one limiter to cap aggregate throughput against a backend.
type RateLimitedEngine struct {
	engine  Engine
	limiter *RateLimiter
}

// NewRateLimitedEngine wraps an engine with the given limiter.
func NewRateLimitedEngine(engine Engine, limiter *RateLimiter) *RateLimitedEngine {
	return &RateLimitedEngine{engine: engine, limiter: limiter}
}

func (e *RateLimitedEngine) Translate(ctx context.Context, text string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	return e.engine.Translate(ctx, text)
}

func (e *RateLimitedEngine) ModelID() string {
	return e.engine.ModelID()
}

func (e *RateLimitedEngine) Release() error {
	return e.engine.Release()
}

// Limiter returns the underlying rate limiter for inspection.
func (e *RateLimitedEngine) Limiter() *RateLimiter {
	return e.limiter
}

// RateLimitLoader wraps a Loader so all engines it produces share one rate
// limiter.
type RateLimitLoader struct {
	inner   Loader
	limiter *RateLimiter
}

// NewRateLimitLoader creates a loader whose engines share a limiter built
// from cfg.
func NewRateLimitLoader(inner Loader, cfg RateLimitConfig) *RateLimitLoader {
	return &RateLimitLoader{inner: inner, limiter: NewRateLimiter(cfg)}
}

func (l *RateLimitLoader) Load(ctx context.Context, modelID string) (Engine, error) {
	eng, err := l.inner.Load(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return NewRateLimitedEngine(eng, l.limiter), nil
}

// Verify implementations.
var (
	_ Engine = (*RateLimitedEngine)(nil)
	_ Loader = (*RateLimitLoader)(nil)
)
