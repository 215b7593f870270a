package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   100 * time.Millisecond,
	}
}

func TestWithRetry_Success(t *testing.T) {
	callCount := 0
	result, err := withRetry(context.Background(), testRetryConfig(), func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %q", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestWithRetry_RetryableError(t *testing.T) {
	callCount := 0
	result, err := withRetry(context.Background(), testRetryConfig(), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", errors.New("rate limit exceeded")
		}
		return "success", nil
	})

	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %q", result)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	callCount := 0
	_, err := withRetry(context.Background(), testRetryConfig(), func() (string, error) {
		callCount++
		return "", errors.New("invalid API key")
	})

	if err == nil {
		t.Fatal("expected error for non-retryable failure")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call for non-retryable error, got %d", callCount)
	}
}

func TestWithRetry_MaxRetriesExceeded(t *testing.T) {
	cfg := testRetryConfig()
	cfg.MaxRetries = 2

	callCount := 0
	_, err := withRetry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", errors.New("503 service unavailable")
	})

	if err == nil {
		t.Fatal("expected error after max retries")
	}
	// Initial attempt + 2 retries = 3 calls
	if callCount != 3 {
		t.Errorf("expected 3 calls (1 + 2 retries), got %d", callCount)
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := withRetry(ctx, cfg, func() (string, error) {
		return "", errors.New("rate limit exceeded")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"timeout", errors.New("request timeout"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"temporary failure", errors.New("temporary failure"), true},
		{"503", errors.New("status 503"), true},
		{"429", errors.New("status 429"), true},
		{"auth failure", errors.New("invalid API key"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RetryableError(tt.err)
			if result != tt.expected {
				t.Errorf("RetryableError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 3 {
		t.Errorf("expected MaxRetries 3, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay != 1*time.Second {
		t.Errorf("expected BaseDelay 1s, got %v", cfg.BaseDelay)
	}
	if cfg.MaxDelay != 30*time.Second {
		t.Errorf("expected MaxDelay 30s, got %v", cfg.MaxDelay)
	}
}

// flakyEngine fails a fixed number of calls before succeeding.
type flakyEngine struct {
	failCount int
	callCount int
}

func (e *flakyEngine) Translate(ctx context.Context, text string) (string, error) {
	e.callCount++
	if e.callCount <= e.failCount {
		return "", errors.New("temporary failure")
	}
	return "translated", nil
}

func (e *flakyEngine) ModelID() string { return "flaky" }
func (e *flakyEngine) Release() error  { return nil }

func TestRetryEngine(t *testing.T) {
	inner := &flakyEngine{failCount: 2}
	eng := NewRetryEngine(inner, testRetryConfig())

	result, err := eng.Translate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if result != "translated" {
		t.Errorf("unexpected result: %q", result)
	}
	if inner.callCount != 3 {
		t.Errorf("expected 3 calls, got %d", inner.callCount)
	}
}

func TestRetryLoader_WrapsEngines(t *testing.T) {
	loader := NewRetryLoader(&MockLoader{}, testRetryConfig())

	eng, err := loader.Load(context.Background(), "opus-mt-en-hi")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := eng.(*RetryEngine); !ok {
		t.Errorf("expected *RetryEngine, got %T", eng)
	}
	if eng.ModelID() != "opus-mt-en-hi" {
		t.Errorf("ModelID() = %q, want %q", eng.ModelID(), "opus-mt-en-hi")
	}
}
