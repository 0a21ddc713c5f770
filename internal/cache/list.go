// list.go provides a Redis-backed cache for rendered JSON list responses.
// The featured and latest article listings are requested on every page
// view of the news site; caching the serialized response skips the join
// queries entirely on a hit.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Redis key prefix for cached list responses.
	listKeyPrefix = "articles:"

	// DefaultListTTL is how long a cached listing stays valid. Kept short
	// because invalidation on mutation is best-effort.
	DefaultListTTL = 60 * time.Second
)

// ListCache stores serialized JSON responses for public article listings.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Redis client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a response body for a list key with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached listing. Called after any article or
// category mutation, since any listing could be affected.
func (lc *ListCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache delete error", "error", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}

// FeaturedKey returns the cache key for the featured listing.
func FeaturedKey(limit int) string {
	return fmt.Sprintf("featured:%d", limit)
}

// LatestKey returns the cache key for the latest listing.
func LatestKey(limit int, categoryID *uuid.UUID) string {
	if categoryID == nil {
		return fmt.Sprintf("latest:%d:all", limit)
	}
	return fmt.Sprintf("latest:%d:%s", limit, categoryID)
}
