// Package relay hosts the request engine: handler dispatch, the fallback
// orchestrator that recovers failed translations under alternate formats
// and transmission strategies, and the public entry points.
package relay

import (
	"sync"
	"time"

	"github.com/ALLiDoizCode/adp-relay/core"
)

type preferenceEntry struct {
	strategy core.Strategy
	storedAt time.Time
}

// preferenceCache remembers the transmission strategy chosen per actor.
// Entries are lazy: created the first time a fallback decision is computed
// for an actor and reused until the TTL elapses. Last write wins; entries
// are idempotent re-derivations so racing writers are harmless.
type preferenceCache struct {
	mu      sync.RWMutex
	entries map[string]preferenceEntry
	ttl     time.Duration
	now     func() time.Time
}

func newPreferenceCache(ttl time.Duration, now func() time.Time) *preferenceCache {
	if now == nil {
		now = time.Now
	}
	return &preferenceCache{
		entries: make(map[string]preferenceEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *preferenceCache) get(actorID string) (core.Strategy, bool) {
	c.mu.RLock()
	entry, ok := c.entries[actorID]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return "", false
	}
	return entry.strategy, true
}

func (c *preferenceCache) set(actorID string, strategy core.Strategy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[actorID] = preferenceEntry{strategy: strategy, storedAt: c.now()}
}

func (c *preferenceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]preferenceEntry)
}
