package app

import (
	"errors"
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

	// StoreBaseURL points at the budget store, the system of record this
	// service fronts.
	StoreBaseURL string        `envconfig:"STORE_BASE_URL" required:"true"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"15s"`

	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CatalogTTL     time.Duration `envconfig:"CATALOG_TTL" default:"5m"`
	ReportCacheTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"10m"`

	// FiscalYear pins the year the nightly reconciliation pass targets; zero
	// means the calendar year current at each run.
	FiscalYear int `envconfig:"FISCAL_YEAR" default:"0"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.StoreBaseURL == "" {
		return nil, errors.New("store base URL must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
