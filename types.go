package lingo

import (
	"sort"
	"time"
)

// LanguagePair is an ordered (source, target) pair of language codes
// identifying a translation direction. It is a plain value type: two pairs
// are equal iff both codes match, which makes it usable directly as a map key.
type LanguagePair struct {
	Source string
	Target string
}

// String returns the pair in "en->hi" form for logs and error messages.
func (p LanguagePair) String() string {
	return p.Source + "->" + p.Target
}

// Key returns the pair in "en:hi" form, suitable for cache keys and
// per-pair locking keys.
func (p LanguagePair) Key() string {
	return p.Source + ":" + p.Target
}

// TranslationRequest is one inbound translation call. It is created per
// request, consumed once, and discarded.
type TranslationRequest struct {
	Text   string
	Source string
	Target string
}

// Pair returns the language pair of the request.
func (r TranslationRequest) Pair() LanguagePair {
	return LanguagePair{Source: r.Source, Target: r.Target}
}

// TranslationResult is the outcome of a successful translation.
type TranslationResult struct {
	TranslatedText string
	FromCache      bool
	// EngineID is the model identifier of the engine that produced
	// TranslatedText. It is empty when the result came from the cache.
	EngineID string
	// Latency is measured end to end, from validation to the terminal state,
	// inclusive of cache and engine calls.
	Latency time.Duration
}

// HealthStatus reports the runtime state of the pipeline's dependencies.
type HealthStatus struct {
	LoadedPairs    []LanguagePair
	CacheConnected bool
}

// Catalog maps supported language pairs to external model identifiers.
// It is the single authoritative table: a pair is accepted for translation
// iff it has a model entry, so the validation allow-list and the loadable
// model set cannot drift apart.
type Catalog map[LanguagePair]string

// DefaultCatalog returns the built-in pair table, using the Helsinki-NLP
// opus-mt model naming convention.
func DefaultCatalog() Catalog {
	return Catalog{
		{Source: "en", Target: "hi"}: "Helsinki-NLP/opus-mt-en-hi",
		{Source: "hi", Target: "en"}: "Helsinki-NLP/opus-mt-hi-en",
		{Source: "en", Target: "de"}: "Helsinki-NLP/opus-mt-en-de",
		{Source: "de", Target: "en"}: "Helsinki-NLP/opus-mt-de-en",
		{Source: "en", Target: "es"}: "Helsinki-NLP/opus-mt-en-es",
		{Source: "es", Target: "en"}: "Helsinki-NLP/opus-mt-es-en",
	}
}

// Supported reports whether the pair has a model entry.
func (c Catalog) Supported(pair LanguagePair) bool {
	_, ok := c[pair]
	return ok
}

// ModelID returns the external model identifier for the pair.
func (c Catalog) ModelID(pair LanguagePair) (string, bool) {
	id, ok := c[pair]
	return id, ok
}

// Pairs returns all supported pairs in a stable sorted order.
func (c Catalog) Pairs() []LanguagePair {
	pairs := make([]LanguagePair, 0, len(c))
	for p := range c {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key() < pairs[j].Key() })
	return pairs
}
