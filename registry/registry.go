// Package registry manages translation engines by language pair: lazy
// loading with per-pair single flight, in-use tracking, and explicit unload.
package registry

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/vireolabs/lingo"
	"github.com/vireolabs/lingo/engine"
)

const (
	// DefaultLoadTimeout bounds a single engine load.
	DefaultLoadTimeout = 2 * time.Minute

	// DefaultTranslateTimeout bounds a single engine invocation.
	DefaultTranslateTimeout = 30 * time.Second
)

// ErrEngineBusy is returned by Unload when the engine has translations in
// flight.
var ErrEngineBusy = errors.New("engine busy: translations in flight")

// slot tracks one loaded engine and its in-flight translation count.
type slot struct {
	engine   engine.Engine
	modelID  string
	inflight int
}

// Registry resolves language pairs to loaded engines. A pair's engine is
// loaded on first use; concurrent first requests for the same pair share a
// single load, while different pairs load independently. Engines stay
// resident until Unload or Close.
type Registry struct {
	catalog lingo.Catalog
	loader  engine.Loader

	mu    sync.Mutex
	slots map[lingo.LanguagePair]*slot
	group singleflight.Group

	loadTimeout      time.Duration
	translateTimeout time.Duration
	log              *logrus.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLoadTimeout bounds each engine load.
func WithLoadTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.loadTimeout = d
		}
	}
}

// WithTranslateTimeout bounds each engine invocation.
func WithTranslateTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.translateTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a registry over the catalog and loader.
func New(catalog lingo.Catalog, loader engine.Loader, opts ...Option) *Registry {
	r := &Registry{
		catalog:          catalog,
		loader:           loader,
		slots:            make(map[lingo.LanguagePair]*slot),
		loadTimeout:      DefaultLoadTimeout,
		translateTimeout: DefaultTranslateTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logrus.New()
		r.log.SetOutput(io.Discard)
	}
	return r
}

// Resolve returns the engine for the pair, loading it on first use. When
// several callers race on an unloaded pair, exactly one load runs and all
// callers share its outcome.
func (r *Registry) Resolve(ctx context.Context, pair lingo.LanguagePair) (engine.Engine, error) {
	modelID, ok := r.catalog.ModelID(pair)
	if !ok {
		return nil, &lingo.UnsupportedPairError{Pair: pair, Supported: r.catalog.Pairs()}
	}

	r.mu.Lock()
	if s, ok := r.slots[pair]; ok {
		eng := s.engine
		r.mu.Unlock()
		return eng, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(pair.Key(), func() (interface{}, error) {
		// Re-check under the lock: the pair may have been loaded between the
		// fast path and the flight starting.
		r.mu.Lock()
		if s, ok := r.slots[pair]; ok {
			eng := s.engine
			r.mu.Unlock()
			return eng, nil
		}
		r.mu.Unlock()

		// The load runs detached from the first caller's context so that a
		// cancelled initiator does not fail the waiters sharing the flight.
		loadCtx, cancel := context.WithTimeout(context.Background(), r.loadTimeout)
		defer cancel()

		start := time.Now()
		eng, err := r.loader.Load(loadCtx, modelID)
		if err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"pair":  pair.String(),
				"model": modelID,
			}).Error("engine load failed")
			return nil, &lingo.EngineError{
				Pair:      pair,
				ModelID:   modelID,
				Message:   "load failed",
				Cause:     err,
				Retryable: true,
			}
		}

		r.mu.Lock()
		r.slots[pair] = &slot{engine: eng, modelID: modelID}
		r.mu.Unlock()

		r.log.WithFields(logrus.Fields{
			"pair":     pair.String(),
			"model":    modelID,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Info("engine loaded")
		return eng, nil
	})
	if err != nil {
		return nil, err
	}
	// The load succeeded for everyone in the flight, but this caller may have
	// given up while waiting.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return v.(engine.Engine), nil
}

// Translate resolves the pair's engine and runs one translation on it,
// holding the pair marked in-flight for the duration so Unload cannot pull
// the engine out from under the call.
func (r *Registry) Translate(ctx context.Context, pair lingo.LanguagePair, text string) (string, error) {
	eng, err := r.acquire(ctx, pair)
	if err != nil {
		return "", err
	}
	defer r.release(pair)

	callCtx, cancel := context.WithTimeout(ctx, r.translateTimeout)
	defer cancel()

	out, err := eng.Translate(callCtx, text)
	if err != nil {
		if ctx.Err() != nil {
			// The caller cancelled; report that, not an engine failure.
			return "", ctx.Err()
		}
		modelID, _ := r.catalog.ModelID(pair)
		return "", &lingo.EngineError{
			Pair:      pair,
			ModelID:   modelID,
			Message:   "translate failed",
			Cause:     err,
			Retryable: errors.Is(err, context.DeadlineExceeded) || engine.RetryableError(err),
		}
	}
	return out, nil
}

// acquire resolves the engine and bumps the pair's in-flight count while
// holding the lock, so the count can never miss a running translation. An
// Unload racing between Resolve and the bump empties the slot; the loop
// resolves again.
func (r *Registry) acquire(ctx context.Context, pair lingo.LanguagePair) (engine.Engine, error) {
	for {
		eng, err := r.Resolve(ctx, pair)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		s, ok := r.slots[pair]
		if ok && s.engine == eng {
			s.inflight++
			r.mu.Unlock()
			return eng, nil
		}
		r.mu.Unlock()

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
}

func (r *Registry) release(pair lingo.LanguagePair) {
	r.mu.Lock()
	if s, ok := r.slots[pair]; ok && s.inflight > 0 {
		s.inflight--
	}
	r.mu.Unlock()
}

// Unload releases the pair's engine and frees its slot. An unloaded pair is
// not an error. A pair with translations in flight is not unloaded; the call
// fails with ErrEngineBusy and the caller may retry once traffic drains.
func (r *Registry) Unload(pair lingo.LanguagePair) error {
	r.mu.Lock()
	s, ok := r.slots[pair]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	if s.inflight > 0 {
		r.mu.Unlock()
		return ErrEngineBusy
	}
	delete(r.slots, pair)
	r.mu.Unlock()

	if err := s.engine.Release(); err != nil {
		r.log.WithError(err).WithField("pair", pair.String()).Warn("engine release failed")
		return err
	}
	r.log.WithFields(logrus.Fields{
		"pair":  pair.String(),
		"model": s.modelID,
	}).Info("engine unloaded")
	return nil
}

// Preload loads engines for the given pairs up front. Failures do not abort
// the rest; the result maps each pair to its load error, nil on success.
func (r *Registry) Preload(ctx context.Context, pairs []lingo.LanguagePair) map[lingo.LanguagePair]error {
	results := make(map[lingo.LanguagePair]error, len(pairs))
	for _, pair := range pairs {
		_, err := r.Resolve(ctx, pair)
		results[pair] = err
		if err != nil {
			r.log.WithError(err).WithField("pair", pair.String()).Warn("preload failed")
		}
	}
	return results
}

// LoadedPairs returns the currently loaded pairs in a stable sorted order.
func (r *Registry) LoadedPairs() []lingo.LanguagePair {
	r.mu.Lock()
	pairs := make([]lingo.LanguagePair, 0, len(r.slots))
	for p := range r.slots {
		pairs = append(pairs, p)
	}
	r.mu.Unlock()

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key() < pairs[j].Key() })
	return pairs
}

// Close releases every loaded engine. In-flight counts are not consulted;
// Close is for shutdown, after traffic has stopped.
func (r *Registry) Close() error {
	r.mu.Lock()
	slots := r.slots
	r.slots = make(map[lingo.LanguagePair]*slot)
	r.mu.Unlock()

	var firstErr error
	for pair, s := range slots {
		if err := s.engine.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.log.WithField("pair", pair.String()).Debug("engine released")
	}
	return firstErr
}

// Verify Registry satisfies the pipeline's engine source.
var _ lingo.Engines = (*Registry)(nil)
