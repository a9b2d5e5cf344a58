package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// RedisAddr left empty disables the render cache and the worker.
	RedisAddr string        `envconfig:"REDIS_ADDR" default:""`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	RateLimit       int `envconfig:"RATE_LIMIT" default:"60"`
	ExportRateLimit int `envconfig:"EXPORT_RATE_LIMIT" default:"10"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`

	FilterByRange bool   `envconfig:"DASHBOARD_FILTER_BY_RANGE" default:"false"`
	WarmupCron    string `envconfig:"WARMUP_CRON" default:"*/30 * * * *"`

	// WorkerMetricsAddr is where cmd/worker serves /metrics. Empty disables it.
	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be pretty or json, got %q", c.LogFormat)
	}
	if c.AppReadTimeout <= 0 || c.AppWriteTimeout <= 0 || c.AppRequestTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.RateLimit <= 0 || c.ExportRateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache ttl must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool {
	return c != nil && c.RedisAddr != ""
}
