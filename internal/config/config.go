// Package config loads the render service configuration from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/charmbracelet/log"
)

const (
	defaultAddr     = ":8080"
	defaultDatabase = "sankeyflow"
	defaultCacheTTL = 24 * time.Hour
	defaultMaxBody  = 1 << 20
)

// Config holds all environment-driven configuration of the render service.
type Config struct {
	// HTTP listener
	Addr         string `env:"SANKEYFLOW_ADDR,default=:8080"`
	MaxBodyBytes int64  `env:"SANKEYFLOW_MAX_BODY_BYTES,default=1048576"`

	// Shared artifact cache. Empty disables caching.
	RedisURL string `env:"SANKEYFLOW_REDIS_URL"`
	CacheTTL string `env:"SANKEYFLOW_CACHE_TTL,default=24h"`

	// Chart store. Empty keeps charts in memory.
	MongoURI      string `env:"SANKEYFLOW_MONGO_URI"`
	MongoDatabase string `env:"SANKEYFLOW_MONGO_DATABASE,default=sankeyflow"`

	// Logging options
	LogLevel  string `env:"SANKEYFLOW_LOG_LEVEL,default=info"`
	LogFormat string `env:"SANKEYFLOW_LOG_FORMAT,default=text"`

	cacheTTL time.Duration
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate ensures basic correctness of the configuration.
func (c *Config) Validate() error {
	if _, port, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid listen addr %q: %w", c.Addr, err)
	} else if err := validatePort(port); err != nil {
		return err
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.MaxBodyBytes)
	}
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid cache ttl %q: %w", c.CacheTTL, err)
	}
	if ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	c.cacheTTL = ttl
	if c.RedisURL != "" {
		if err := validateURL("redis", c.RedisURL, "redis", "rediss", "unix"); err != nil {
			return err
		}
	}
	if c.MongoURI != "" {
		if err := validateURL("mongo", c.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MongoDatabase cannot be empty when a mongo uri is set")
		}
	}
	if err := validateLogLevel(c.LogLevel); err != nil {
		return err
	}
	return validateLogFormat(c.LogFormat)
}

// CacheTTLDuration returns the parsed artifact cache TTL.
func (c *Config) CacheTTLDuration() time.Duration {
	if c.cacheTTL == 0 {
		if d, err := time.ParseDuration(c.CacheTTL); err == nil && d > 0 {
			return d
		}
		return defaultCacheTTL
	}
	return c.cacheTTL
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Formatter returns the configured log formatter.
func (c *Config) Formatter() log.Formatter {
	if c.LogFormat == "json" {
		return log.JSONFormatter
	}
	return log.TextFormatter
}

// applyDefaults fills fields that were set to empty strings explicitly.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.MongoDatabase == "" && !envVarSet("SANKEYFLOW_MONGO_DATABASE") {
		c.MongoDatabase = defaultDatabase
	}
	if c.MaxBodyBytes == 0 && !envVarSet("SANKEYFLOW_MAX_BODY_BYTES") {
		c.MaxBodyBytes = defaultMaxBody
	}
}

func validatePort(port string) error {
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %q", port)
	}
	return nil
}

func validateURL(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s url: %w", name, err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("invalid %s url scheme %q", name, u.Scheme)
}

func validateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", level)
	}
}

func validateLogFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid log format %q, must be 'json' or 'text'", format)
	}
}

func envVarSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
