// Package metrics exposes Prometheus collectors for HTTP traffic, the movie
// sync job and the external films catalogue.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Sync
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_sync_runs_total",
			Help: "Total number of movie sync runs by result (synced, noop, error)",
		},
		[]string{"result"},
	)

	SyncedMoviesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movies_synced_total",
			Help: "Total number of movies inserted by the sync job",
		},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movies_sync_duration_seconds",
			Help:    "Duration of movie sync runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// External catalogue
	NameLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_name_lookup_failures_total",
			Help: "Resource name lookups that failed and were dropped",
		},
	)

	NameCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_name_cache_hits_total",
			Help: "Resource name lookups served from Redis",
		},
	)

	NameCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_name_cache_misses_total",
			Help: "Resource name lookups that went to the external API",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// ObserveSync records the outcome of one sync run.
func ObserveSync(result string, synced int, elapsed time.Duration) {
	SyncRunsTotal.WithLabelValues(result).Inc()
	SyncedMoviesTotal.Add(float64(synced))
	SyncDuration.Observe(elapsed.Seconds())
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
