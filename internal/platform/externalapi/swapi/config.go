// Package swapi provides a client for the Star Wars API films catalogue.
package swapi

import (
	"time"

	"movie_backend/internal/platform/config"
)

// Config holds configuration for the SWAPI client.
type Config struct {
	BaseURL          string        // Base URL for the API (e.g., "https://swapi.dev/api")
	Timeout          time.Duration // HTTP request timeout
	BreakerThreshold uint32        // Consecutive failures before the breaker opens
	BreakerTimeout   time.Duration // Time the breaker stays open before probing again
}

// LoadConfig extracts the client settings from the application configuration.
func LoadConfig(c config.SWAPIConfig) Config {
	return Config{
		BaseURL:          c.BaseURL,
		Timeout:          c.Timeout,
		BreakerThreshold: c.BreakerThreshold,
		BreakerTimeout:   c.BreakerTimeout,
	}
}
