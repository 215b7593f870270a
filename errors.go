package lingo

import (
	"fmt"
	"strings"
)

// ValidationError indicates a malformed request: empty text, text over the
// configured maximum, or missing fields. Always client-caused, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return "invalid request: " + e.Message
}

// UnsupportedPairError indicates a language pair outside the catalog.
// Its message lists the pairs that are supported.
type UnsupportedPairError struct {
	Pair      LanguagePair
	Supported []LanguagePair
}

func (e *UnsupportedPairError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("unsupported language pair: %s", e.Pair)
	}
	pairs := make([]string, len(e.Supported))
	for i, p := range e.Supported {
		pairs[i] = p.String()
	}
	return fmt.Sprintf("unsupported language pair: %s (supported: %s)",
		e.Pair, strings.Join(pairs, ", "))
}

// EngineError indicates an engine load or invocation failure, including
// timeouts. It may be transient; Retryable tells the caller whether a retry
// with backoff is worthwhile. The pipeline itself never retries.
type EngineError struct {
	Pair      LanguagePair
	ModelID   string
	Message   string
	Cause     error
	Retryable bool
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine error (%s): %s: %v", e.Pair, e.Message, e.Cause)
	}
	return fmt.Sprintf("engine error (%s): %s", e.Pair, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}
