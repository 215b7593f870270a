// Package cache provides the best-effort translation cache. An unavailable
// backend never fails a request; it only forces a cache miss.
package cache

import "context"

// Store is the cache consulted by the translation pipeline. Get reports a
// miss on any backend failure or timeout; Set reports success as a bool and
// never propagates backend errors.
type Store interface {
	// Get returns the cached translation for (text, source, target) if
	// present and unexpired.
	Get(ctx context.Context, text, source, target string) (string, bool)

	// Set stores the translation under the derived key with the store's TTL.
	Set(ctx context.Context, text, source, target, translation string) bool

	// Clear removes every entry under the cache namespace, incrementally.
	Clear(ctx context.Context) error

	// Stats returns best-effort introspection; it reports a disconnected
	// store instead of failing.
	Stats(ctx context.Context) Stats

	// Connected reports whether the backend is currently reachable.
	Connected(ctx context.Context) bool

	// Close releases the backend connection.
	Close() error
}

// Stats is best-effort cache introspection.
type Stats struct {
	Connected   bool
	HitCount    int64
	MissCount   int64
	MemoryUsage string
}
