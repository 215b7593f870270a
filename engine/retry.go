package engine

import (
	"context"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // maximum number of retry attempts
	BaseDelay  time.Duration // initial delay between retries
	MaxDelay   time.Duration // maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// withRetry executes fn with exponential backoff on retryable errors.
func withRetry(ctx context.Context, cfg RetryConfig, fn func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !RetryableError(err) {
			return "", err
		}

		// Don't sleep after the last attempt.
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return "", lastErr
}

// RetryEngine wraps an Engine with retry logic.
type RetryEngine struct {
	engine Engine
	config RetryConfig
}

// NewRetryEngine wraps an engine so transient failures are retried with
// exponential backoff.
func NewRetryEngine(engine Engine, cfg RetryConfig) *RetryEngine {
	return &RetryEngine{engine: engine, config: cfg}
}

func (e *RetryEngine) Translate(ctx context.Context, text string) (string, error) {
	return withRetry(ctx, e.config, func() (string, error) {
		return e.engine.Translate(ctx, text)
	})
}

func (e *RetryEngine) ModelID() string {
	return e.engine.ModelID()
}

func (e *RetryEngine) Release() error {
	return e.engine.Release()
}

// RetryLoader wraps a Loader so every engine it produces retries transient
// translation failures.
type RetryLoader struct {
	inner  Loader
	config RetryConfig
}

// NewRetryLoader creates a loader whose engines retry with cfg.
func NewRetryLoader(inner Loader, cfg RetryConfig) *RetryLoader {
	return &RetryLoader{inner: inner, config: cfg}
}

func (l *RetryLoader) Load(ctx context.Context, modelID string) (Engine, error) {
	eng, err := l.inner.Load(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return NewRetryEngine(eng, l.config), nil
}

// Verify implementations.
var (
	_ Engine = (*RetryEngine)(nil)
	_ Loader = (*RetryLoader)(nil)
)
