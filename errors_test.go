package lingo

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "text", Message: "must not be empty"}
	if err.Error() != "invalid request: text: must not be empty" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	// Without field
	err2 := &ValidationError{Message: "malformed"}
	if err2.Error() != "invalid request: malformed" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestUnsupportedPairError(t *testing.T) {
	err := &UnsupportedPairError{
		Pair: LanguagePair{Source: "en", Target: "fr"},
		Supported: []LanguagePair{
			{Source: "en", Target: "hi"},
			{Source: "hi", Target: "en"},
		},
	}

	msg := err.Error()
	if !strings.Contains(msg, "en->fr") {
		t.Errorf("message should name the rejected pair: %s", msg)
	}
	if !strings.Contains(msg, "en->hi") || !strings.Contains(msg, "hi->en") {
		t.Errorf("message should list supported pairs: %s", msg)
	}

	// Without a supported list
	bare := &UnsupportedPairError{Pair: LanguagePair{Source: "en", Target: "fr"}}
	if strings.Contains(bare.Error(), "supported:") {
		t.Errorf("bare message should omit the supported list: %s", bare.Error())
	}
}

func TestEngineError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &EngineError{
		Pair:      LanguagePair{Source: "en", Target: "hi"},
		ModelID:   "opus-mt-en-hi",
		Message:   "load failed",
		Cause:     cause,
		Retryable: true,
	}

	if !strings.Contains(err.Error(), "en->hi") || !strings.Contains(err.Error(), "load failed") {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("EngineError should unwrap to its cause")
	}
	if !err.Retryable {
		t.Error("error should be retryable")
	}
}
