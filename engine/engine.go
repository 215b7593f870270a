// Package engine defines the translation engine interface and the loaders
// that materialize engines from model identifiers.
package engine

import (
	"context"
	"errors"
	"strings"
)

// Engine is a loaded translation model for one language direction. An
// Engine is safe for concurrent use.
type Engine interface {
	// Translate converts text into the engine's target language. It never
	// returns an empty translation without an error.
	Translate(ctx context.Context, text string) (string, error)

	// ModelID returns the identifier the engine was loaded from.
	ModelID() string

	// Release frees the engine's resources. No Translate call may be in
	// flight when Release runs.
	Release() error
}

// Loader materializes an Engine from a model identifier. Loading is
// expensive; callers are expected to cache the result.
type Loader interface {
	Load(ctx context.Context, modelID string) (Engine, error)
}

// RetryableError reports whether an engine error is worth retrying.
// Context cancellation and deadline errors never are.
func RetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporar",
		"503",
		"502",
		"429",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
