package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockEngine is a mock translation engine for testing.
type MockEngine struct {
	Model        string
	Translations map[string]string // source text to translation
	Err          error             // returned by every Translate when set
	Block        chan struct{}     // when set, Translate waits on it (or ctx)

	mu       sync.Mutex
	calls    int
	released bool
}

// Translate returns the configured translation, or the input wrapped in
// brackets when no mapping exists.
func (m *MockEngine) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s]", text), nil
}

func (m *MockEngine) ModelID() string {
	return m.Model
}

func (m *MockEngine) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
	return nil
}

// CallCount returns the number of Translate calls received.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Released reports whether Release was called.
func (m *MockEngine) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// MockLoader is a mock Loader for testing.
type MockLoader struct {
	LoadDelay    time.Duration     // simulated load time
	FailFor      map[string]error  // per-model load failures
	Translations map[string]string // passed to every loaded engine

	mu      sync.Mutex
	loads   int
	Engines []*MockEngine // engines handed out, in load order
}

// Load returns a new MockEngine after the configured delay.
func (l *MockLoader) Load(ctx context.Context, modelID string) (Engine, error) {
	l.mu.Lock()
	l.loads++
	l.mu.Unlock()

	if l.LoadDelay > 0 {
		select {
		case <-time.After(l.LoadDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := l.FailFor[modelID]; ok {
		return nil, err
	}

	eng := &MockEngine{Model: modelID, Translations: l.Translations}
	l.mu.Lock()
	l.Engines = append(l.Engines, eng)
	l.mu.Unlock()
	return eng, nil
}

// LoadCount returns the number of Load calls received.
func (l *MockLoader) LoadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// Verify implementations.
var (
	_ Engine = (*MockEngine)(nil)
	_ Loader = (*MockLoader)(nil)
)
