// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"movie_backend/internal/platform/cache"
	"movie_backend/internal/platform/config"
	"movie_backend/internal/platform/externalapi/swapi"
	infrahttp "movie_backend/internal/platform/http"
	"movie_backend/internal/shared/ratelimiter"
)

// nameCacheNamespace prefixes every cached resource name.
const nameCacheNamespace = "swapi:name"

// NewCatalog creates a fully configured SWAPI client with HTTP client and rate limiter.
func NewCatalog(cfg config.SWAPIConfig) *swapi.Client {
	c := swapi.LoadConfig(cfg)
	httpClient := infrahttp.NewHTTPClient(c.Timeout, cfg.MaxConcurrentLookups)
	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	return swapi.NewClient(c, httpClient, limiter)
}

// NewNameResolver wraps the client's name lookups with the Redis cache.
// If rdb is nil the wrapper passes every lookup straight through.
func NewNameResolver(rdb *redis.Client, cfg config.RedisConfig, client *swapi.Client) *cache.CachingNameResolver {
	return cache.NewCachingNameResolver(rdb, cfg.NameCacheTTL, client, nameCacheNamespace)
}
