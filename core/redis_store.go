package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore provides Redis-backed metadata caching. Capability documents
// are stored with the configured TTL under a key prefix, giving replicas a
// shared cache with ~1-2ms latency. Failures degrade to cache misses so
// the engine falls back to a fresh discovery call.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string

	// Stats (atomic for thread-safety)
	hits   int64
	misses int64
}

// RedisStoreOption allows customization of the Redis store behavior.
type RedisStoreOption func(*RedisStore)

// WithRedisPrefix sets the key prefix for cache entries. Useful for
// multi-tenant deployments.
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a Redis-backed metadata store whose entries expire
// after ttl. Expiry is enforced by Redis itself rather than a local clock.
func NewRedisStore(client *redis.Client, ttl time.Duration, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "adprelay:meta:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves metadata from Redis.
func (s *RedisStore) Get(ctx context.Context, actorID string) (*ActorMetadata, bool) {
	val, err := s.client.Get(ctx, s.prefix+actorID).Result()
	if err == redis.Nil {
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}
	if err != nil {
		// Redis error - degrade gracefully
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}

	var metadata ActorMetadata
	if err := json.Unmarshal([]byte(val), &metadata); err != nil {
		// Corrupt data in Redis - treat as miss
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&s.hits, 1)
	return &metadata, true
}

// Set stores metadata in Redis with the store's TTL.
func (s *RedisStore) Set(ctx context.Context, actorID string, metadata *ActorMetadata) error {
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+actorID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set metadata in Redis: %w", err)
	}
	return nil
}

// Delete evicts one actor's entry.
func (s *RedisStore) Delete(ctx context.Context, actorID string) error {
	return s.client.Del(ctx, s.prefix+actorID).Err()
}

// Clear evicts every entry under the store's prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Stats returns cache performance statistics for monitoring.
func (s *RedisStore) Stats() CacheStats {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)

	stats := CacheStats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}
