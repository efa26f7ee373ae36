package core

import (
	"context"
	"sync"
	"time"
)

// CacheStats provides cache performance metrics
type CacheStats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// MetadataStore is the storage behind the metadata cache. Entries are
// idempotent re-derivations: a stale entry may be overwritten by a freshly
// computed one, and concurrent writers for the same actor may race safely
// (last write wins).
type MetadataStore interface {
	// Get returns the cached metadata for the actor and true if the entry
	// exists and is younger than the TTL the store was built with.
	Get(ctx context.Context, actorID string) (*ActorMetadata, bool)

	// Set stores metadata for the actor stamped with the current time.
	Set(ctx context.Context, actorID string, metadata *ActorMetadata) error

	// Delete evicts one actor's entry.
	Delete(ctx context.Context, actorID string) error

	// Clear evicts every entry.
	Clear(ctx context.Context) error

	// Stats returns cache statistics for monitoring.
	Stats() CacheStats
}

type memoryEntry struct {
	metadata *ActorMetadata
	storedAt time.Time
}

// MemoryStore is the default in-process MetadataStore: a mutex-guarded
// map of actor id to {value, timestamp}. The clock is injectable so TTL
// behavior is deterministic under test.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time

	hits   int64
	misses int64
}

// MemoryStoreOption customizes a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock replaces the store's time source. Used by tests to advance
// time without sleeping.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates an in-memory store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the entry for actorID if present and fresh. Stale entries
// are left in place; the next Set overwrites them.
func (s *MemoryStore) Get(ctx context.Context, actorID string) (*ActorMetadata, bool) {
	s.mu.RLock()
	entry, ok := s.entries[actorID]
	s.mu.RUnlock()

	if !ok || s.now().Sub(entry.storedAt) >= s.ttl {
		s.mu.Lock()
		s.misses++
		s.mu.Unlock()
		return nil, false
	}

	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
	return entry.metadata, true
}

// Set stores metadata stamped with the current clock reading.
func (s *MemoryStore) Set(ctx context.Context, actorID string, metadata *ActorMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[actorID] = memoryEntry{metadata: metadata, storedAt: s.now()}
	return nil
}

// Delete evicts one actor's entry.
func (s *MemoryStore) Delete(ctx context.Context, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, actorID)
	return nil
}

// Clear evicts every entry.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

// Stats returns cache performance statistics for monitoring.
func (s *MemoryStore) Stats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := CacheStats{
		Size:   len(s.entries),
		Hits:   s.hits,
		Misses: s.misses,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}
