// Package cache provides caching implementations for usecase interfaces.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"movie_backend/internal/feature/movies/usecase"
	"movie_backend/internal/platform/metrics"
)

const (
	defaultTTL       = 24 * time.Hour
	defaultNamespace = "swapi:name"
)

// CachingNameResolver decorates a NameResolver with Redis caching.
// Only successful lookups are cached; failures always reach the inner resolver.
type CachingNameResolver struct {
	inner     usecase.NameResolver
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.NameResolver = (*CachingNameResolver)(nil)

// NewCachingNameResolver decorates a NameResolver with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "swapi:name".
// A nil rdb disables caching.
func NewCachingNameResolver(rdb *redis.Client, ttl time.Duration, inner usecase.NameResolver, namespace string) *CachingNameResolver {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingNameResolver{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ResolveName returns the cached name for url, falling back to the inner resolver.
func (c *CachingNameResolver) ResolveName(ctx context.Context, url string) (string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ResolveName(ctx, url)
	}

	key := c.cacheKey(url)

	// 1) Check cache
	name, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && name != "":
		metrics.NameCacheHits.Inc()
		return name, nil
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("name cache read failed", "key", key, "error", err)
	}
	metrics.NameCacheMisses.Inc()

	// 2) Fallback to the external API
	name, err = c.inner.ResolveName(ctx, url)
	if err != nil {
		return "", err
	}

	// 3) Store in cache (best effort)
	if err := c.rdb.Set(ctx, key, name, c.ttl).Err(); err != nil {
		slog.Warn("name cache write failed", "key", key, "error", err)
	}
	return name, nil
}

// Purge deletes every cached name in the namespace.
func (c *CachingNameResolver) Purge(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey generates a cache key for a resource URL.
func (c *CachingNameResolver) cacheKey(url string) string {
	return c.namespace + ":" + safe(url)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingNameResolver) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
