package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// memoryEntry holds a cached value with its expiry. A zero expiry never
// expires.
type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-memory Store with TTL support, used in
// tests and in deployments that run without a Redis backend.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryStore creates an in-memory store. A non-positive ttl means
// entries never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get retrieves the cached translation if present and unexpired.
func (s *MemoryStore) Get(ctx context.Context, text, source, target string) (string, bool) {
	key := DeriveKey(text, source, target)

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.misses.Add(1)
		return "", false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		s.misses.Add(1)
		return "", false
	}

	s.hits.Add(1)
	return entry.value, true
}

// Set stores the translation; it always succeeds.
func (s *MemoryStore) Set(ctx context.Context, text, source, target, translation string) bool {
	s.put(DeriveKey(text, source, target), translation)
	return true
}

// put stores a raw key/value pair, applying the store's TTL. Used by Set and
// by the importer, which restores previously derived keys.
func (s *MemoryStore) put(key, value string) {
	entry := memoryEntry{value: value}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

// Clear removes all entries.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

// Stats reports counters; a memory store is always connected.
func (s *MemoryStore) Stats(ctx context.Context) Stats {
	return Stats{
		Connected: true,
		HitCount:  s.hits.Load(),
		MissCount: s.misses.Load(),
	}
}

// Connected always reports true.
func (s *MemoryStore) Connected(ctx context.Context) bool {
	return true
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored entries, including expired ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns all unexpired entries as raw key/value pairs, used by the
// exporter.
func (s *MemoryStore) Entries() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string, len(s.entries))
	now := time.Now()
	for key, entry := range s.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			continue
		}
		result[key] = entry.value
	}
	return result
}

// Verify MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
