// Package discovery resolves actor capability metadata through the ADP
// Info query and caches it with a bounded lifetime.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// MetadataCache serves actor capability documents from a TTL-bounded
// store, issuing a single Info query through the transport on miss or
// staleness. Failed discoveries are never cached: while an actor is
// unreachable every Discover call re-attempts the query.
type MetadataCache struct {
	transport core.Transport
	codec     core.ProtocolCodec
	store     core.MetadataStore
	logger    core.Logger

	// pacing is slept before and after the Info query to avoid upstream
	// rate limiting. Not required for correctness.
	pacing time.Duration
}

// Option customizes a MetadataCache.
type Option func(*MetadataCache)

// WithLogger sets the logger.
func WithLogger(logger core.Logger) Option {
	return func(c *MetadataCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPacing sets the rate-limit pacing delay around the Info query.
func WithPacing(d time.Duration) Option {
	return func(c *MetadataCache) { c.pacing = d }
}

// New creates a MetadataCache over the given collaborators and store.
func New(transport core.Transport, codec core.ProtocolCodec, store core.MetadataStore, opts ...Option) *MetadataCache {
	c := &MetadataCache{
		transport: transport,
		codec:     codec,
		store:     store,
		logger:    &core.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Discover returns the actor's capability metadata, from cache when fresh.
// On miss it issues one Info query, parses the response, and stores the
// document. Returns nil with a categorized error on any failure; the
// negative result is not cached.
func (c *MetadataCache) Discover(ctx context.Context, actorID string) (*core.ActorMetadata, error) {
	if metadata, ok := c.store.Get(ctx, actorID); ok {
		c.logger.Debug("Metadata served from cache", map[string]interface{}{
			"actor_id": actorID,
			"handlers": len(metadata.Handlers),
		})
		return metadata, nil
	}

	c.pace(ctx)

	raw, err := c.transport.Read(ctx, actorID, []core.Tag{{Name: "Action", Value: "Info"}})
	if err != nil {
		c.logger.Warn("Discovery transport call failed", map[string]interface{}{
			"actor_id": actorID,
			"error":    err.Error(),
		})
		return nil, &core.CommError{
			Op:       "discovery.Discover",
			Category: core.CategoryDiscovery,
			ActorID:  actorID,
			Err:      fmt.Errorf("%w: %v", core.ErrDiscoveryFailed, err),
		}
	}

	c.pace(ctx)

	metadata, err := c.codec.ParseInfoResponse(raw)
	if err != nil {
		c.logger.Warn("Info response unparseable", map[string]interface{}{
			"actor_id": actorID,
			"error":    err.Error(),
		})
		return nil, &core.CommError{
			Op:       "discovery.Discover",
			Category: core.CategoryDiscovery,
			ActorID:  actorID,
			Err:      err,
		}
	}

	if err := c.store.Set(ctx, actorID, metadata); err != nil {
		// A store failure only loses caching, not the discovery itself.
		c.logger.Warn("Failed to cache metadata", map[string]interface{}{
			"actor_id": actorID,
			"error":    err.Error(),
		})
	}

	c.logger.Info("Actor discovered", map[string]interface{}{
		"actor_id":         actorID,
		"protocol_version": metadata.ProtocolVersion,
		"handlers":         len(metadata.Handlers),
	})
	return metadata, nil
}

// ClearCache evicts the named actors, or every entry when called with no
// arguments.
func (c *MetadataCache) ClearCache(ctx context.Context, actorIDs ...string) error {
	if len(actorIDs) == 0 {
		return c.store.Clear(ctx)
	}
	for _, id := range actorIDs {
		if err := c.store.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Stats exposes the underlying store's statistics.
func (c *MetadataCache) Stats() core.CacheStats {
	return c.store.Stats()
}

func (c *MetadataCache) pace(ctx context.Context) {
	if c.pacing <= 0 {
		return
	}
	timer := time.NewTimer(c.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
