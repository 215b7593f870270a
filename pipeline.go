package lingo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/vireolabs/lingo/textproc"
)

// DefaultMaxTextLength is the maximum request text length, in characters,
// unless overridden with WithMaxTextLength.
const DefaultMaxTextLength = 512

// Cache is the best-effort translation cache consulted by the pipeline.
// Implementations must absorb backend failures: Get reports them as misses
// and Set reports them as a false return, never as an error.
type Cache interface {
	Get(ctx context.Context, text, source, target string) (string, bool)
	Set(ctx context.Context, text, source, target, translation string) bool
	Connected(ctx context.Context) bool
}

// Engines resolves language pairs to translation capability. It is
// implemented by registry.Registry.
type Engines interface {
	Translate(ctx context.Context, pair LanguagePair, text string) (string, error)
	LoadedPairs() []LanguagePair
}

// Pipeline orchestrates a translation request:
// validate -> cache lookup -> normalize -> translate -> denormalize -> cache.
// It is safe for concurrent use.
type Pipeline struct {
	catalog Catalog
	engines Engines
	cache   Cache
	maxLen  int
	log     *logrus.Logger

	cacheHits    atomic.Int64
	translations atomic.Int64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache sets the translation cache. Without it every request goes to the
// engine.
func WithCache(cache Cache) Option {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// WithMaxTextLength sets the maximum accepted text length in characters.
func WithMaxTextLength(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxLen = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *logrus.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a Pipeline over the given catalog and engine resolver.
func New(catalog Catalog, engines Engines, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog: catalog,
		engines: engines,
		maxLen:  DefaultMaxTextLength,
		log:     quietLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Translate serves one request. Validation and unsupported-pair failures are
// returned before any cache or engine access. Cache unavailability degrades
// to a miss. Engine failures surface as *EngineError and are never cached.
func (p *Pipeline) Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error) {
	start := time.Now()

	if err := p.validate(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, req.Text, req.Source, req.Target); ok {
			p.cacheHits.Add(1)
			p.log.WithFields(logrus.Fields{
				"pair":   req.Pair().String(),
				"cached": true,
			}).Debug("translation served")
			return &TranslationResult{
				TranslatedText: cached,
				FromCache:      true,
				Latency:        time.Since(start),
			}, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pair := req.Pair()
	normalized := textproc.Normalize(req.Text)
	translated, err := p.engines.Translate(ctx, pair, normalized)
	if err != nil {
		return nil, err
	}
	final := textproc.Denormalize(translated)

	// A request cancelled while the engine call was in flight must not
	// populate the cache with a value the caller never saw.
	if ctx.Err() == nil && p.cache != nil {
		if !p.cache.Set(ctx, req.Text, req.Source, req.Target, final) {
			p.log.WithField("pair", pair.String()).Warn("cache store failed, result not cached")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.translations.Add(1)
	modelID, _ := p.catalog.ModelID(pair)
	p.log.WithFields(logrus.Fields{
		"pair":   pair.String(),
		"model":  modelID,
		"cached": false,
	}).Debug("translation served")
	return &TranslationResult{
		TranslatedText: final,
		FromCache:      false,
		EngineID:       modelID,
		Latency:        time.Since(start),
	}, nil
}

// SupportedPairs returns the catalog's pairs in a stable order.
func (p *Pipeline) SupportedPairs() []LanguagePair {
	return p.catalog.Pairs()
}

// HealthStatus reports loaded pairs and cache connectivity.
func (p *Pipeline) HealthStatus(ctx context.Context) HealthStatus {
	status := HealthStatus{
		LoadedPairs: p.engines.LoadedPairs(),
	}
	if p.cache != nil {
		status.CacheConnected = p.cache.Connected(ctx)
	}
	return status
}

// PipelineStats are cumulative request counters. Exporting them to a metrics
// system is up to the caller.
type PipelineStats struct {
	CacheHits    int64
	Translations int64
}

// Stats returns a snapshot of the pipeline's counters.
func (p *Pipeline) Stats() PipelineStats {
	return PipelineStats{
		CacheHits:    p.cacheHits.Load(),
		Translations: p.translations.Load(),
	}
}

func (p *Pipeline) validate(req TranslationRequest) error {
	if req.Source == "" || req.Target == "" {
		return &ValidationError{Field: "source_lang/target_lang", Message: "must not be empty"}
	}
	if strings.TrimSpace(req.Text) == "" {
		return &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if n := utf8.RuneCountInString(req.Text); n > p.maxLen {
		return &ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("text too long: %d characters, maximum is %d", n, p.maxLen),
		}
	}
	if !p.catalog.Supported(req.Pair()) {
		return &UnsupportedPairError{Pair: req.Pair(), Supported: p.catalog.Pairs()}
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
