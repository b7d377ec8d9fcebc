// Package config loads the application configuration.
//
// Values are layered: struct defaults, then an optional YAML file, then
// environment variables (highest priority).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths lists config files searched in order when PathEnvVar is unset.
var DefaultPaths = []string{"config.yaml", "config.yml"}

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	JWT      JWTConfig      `koanf:"jwt"`
	SWAPI    SWAPIConfig    `koanf:"swapi"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	Mode            string        `koanf:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the SQL store.
type DatabaseConfig struct {
	Driver        string        `koanf:"driver"` // postgres or sqlite
	Host          string        `koanf:"host"`
	Port          string        `koanf:"port"`
	User          string        `koanf:"user"`
	Password      string        `koanf:"password"`
	Name          string        `koanf:"name"`
	SSLMode       string        `koanf:"sslmode"`
	SQLitePath    string        `koanf:"sqlite_path"`
	RunMigrations bool          `koanf:"run_migrations"`
	ConnectWait   time.Duration `koanf:"connect_wait"`
}

// RedisConfig configures the optional name cache.
type RedisConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Host         string        `koanf:"host"`
	Port         string        `koanf:"port"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	NameCacheTTL time.Duration `koanf:"name_cache_ttl"`
}

// JWTConfig configures token signing. Expiration 0 means tokens carry no exp claim.
type JWTConfig struct {
	Secret     string        `koanf:"secret"`
	Expiration time.Duration `koanf:"expiration"`
}

// SWAPIConfig configures the external films catalogue client.
type SWAPIConfig struct {
	BaseURL              string        `koanf:"base_url"`
	Timeout              time.Duration `koanf:"timeout"`
	MaxConcurrentLookups int           `koanf:"max_concurrent_lookups"`
	RequestsPerSecond    float64       `koanf:"requests_per_second"` // 0 = unlimited
	Burst                int           `koanf:"burst"`
	BreakerThreshold     uint32        `koanf:"breaker_threshold"`
	BreakerTimeout       time.Duration `koanf:"breaker_timeout"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or text
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:        "postgres",
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Name:          "movies",
			SSLMode:       "disable",
			SQLitePath:    "./movies.db",
			RunMigrations: true,
			ConnectWait:   60 * time.Second,
		},
		Redis: RedisConfig{
			Port:         "6379",
			NameCacheTTL: 24 * time.Hour,
		},
		SWAPI: SWAPIConfig{
			BaseURL:              "https://swapi.dev/api",
			Timeout:              10 * time.Second,
			MaxConcurrentLookups: 10,
			Burst:                1,
			BreakerThreshold:     5,
			BreakerTimeout:       30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envKeys maps environment variable names onto koanf paths.
var envKeys = map[string]string{
	"server_addr":             "server.addr",
	"gin_mode":                "server.mode",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"db_driver":       "database.driver",
	"db_host":         "database.host",
	"db_port":         "database.port",
	"db_user":         "database.user",
	"db_password":     "database.password",
	"db_name":         "database.name",
	"db_sslmode":      "database.sslmode",
	"db_sqlite_path":  "database.sqlite_path",
	"run_migrations":  "database.run_migrations",
	"db_connect_wait": "database.connect_wait",

	"redis_enabled":        "redis.enabled",
	"redis_host":           "redis.host",
	"redis_port":           "redis.port",
	"redis_password":       "redis.password",
	"redis_db":             "redis.db",
	"redis_name_cache_ttl": "redis.name_cache_ttl",

	"jwt_secret":     "jwt.secret",
	"jwt_expiration": "jwt.expiration",

	"swapi_base_url":               "swapi.base_url",
	"swapi_timeout":                "swapi.timeout",
	"swapi_max_concurrent_lookups": "swapi.max_concurrent_lookups",
	"swapi_requests_per_second":    "swapi.requests_per_second",
	"swapi_burst":                  "swapi.burst",
	"swapi_breaker_threshold":      "swapi.breaker_threshold",
	"swapi_breaker_timeout":        "swapi.breaker_timeout",

	"log_level":  "log.level",
	"log_format": "log.format",
}

// envTransform returns the koanf path for a known variable and "" (ignored) otherwise.
func envTransform(key string) string {
	return envKeys[strings.ToLower(key)]
}

// Load builds the configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks values that have no safe default.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.SWAPI.BaseURL == "" {
		return errors.New("SWAPI base URL must be set")
	}
	if c.SWAPI.MaxConcurrentLookups <= 0 {
		return errors.New("swapi.max_concurrent_lookups must be positive")
	}
	return nil
}

// PostgresDSN renders the key/value DSN understood by the pgx driver.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisAddr returns host:port.
func (r RedisConfig) RedisAddr() string {
	return r.Host + ":" + r.Port
}
