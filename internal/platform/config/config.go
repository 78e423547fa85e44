// Package config loads and validates pinguard configuration from the
// environment and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envProduction = "production"

// Config holds application configuration loaded from the environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"PINGUARD_ADDR"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// MaxSequenceStep is the widest stride treated as a sequence (0..5).
	MaxSequenceStep int `mapstructure:"PIN_MAX_SEQUENCE_STEP"`
	// BatchMaxItems caps the number of PINs per batch request.
	BatchMaxItems int `mapstructure:"PIN_BATCH_MAX_ITEMS"`
	// BatchConcurrency bounds concurrent evaluations within one batch.
	BatchConcurrency int `mapstructure:"PIN_BATCH_CONCURRENCY"`

	// ServiceTokenSigningKey is the HS256 key for caller tokens. Empty disables auth
	// outside production.
	ServiceTokenSigningKey string `mapstructure:"SERVICE_TOKEN_SIGNING_KEY"`
	ServiceTokenIssuer     string `mapstructure:"SERVICE_TOKEN_ISSUER"`
	ServiceTokenAudience   string `mapstructure:"SERVICE_TOKEN_AUDIENCE"`

	// AdminAPIToken guards /admin routes; empty leaves them unmounted.
	AdminAPIToken string `mapstructure:"ADMIN_API_TOKEN"`

	// AuditBufferSize switches audit publishing to async with this buffer; 0 is synchronous.
	AuditBufferSize int `mapstructure:"AUDIT_BUFFER_SIZE"`

	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	MetricsEnabled  bool          `mapstructure:"METRICS_ENABLED"`
}

// Load reads .env (if present), then builds and validates Config from the environment.
// Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("PINGUARD_ADDR", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PIN_MAX_SEQUENCE_STEP", 3)
	v.SetDefault("PIN_BATCH_MAX_ITEMS", 100)
	v.SetDefault("PIN_BATCH_CONCURRENCY", 8)
	v.SetDefault("SERVICE_TOKEN_SIGNING_KEY", "")
	v.SetDefault("SERVICE_TOKEN_ISSUER", "pinguard")
	v.SetDefault("SERVICE_TOKEN_AUDIENCE", "pinguard-api")
	v.SetDefault("ADMIN_API_TOKEN", "")
	v.SetDefault("AUDIT_BUFFER_SIZE", 0)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("METRICS_ENABLED", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("config: PINGUARD_ADDR must be set")
	}
	if c.MaxSequenceStep < 0 || c.MaxSequenceStep > 5 {
		return errors.New("config: PIN_MAX_SEQUENCE_STEP must be between 0 and 5")
	}
	if c.BatchMaxItems < 1 {
		return errors.New("config: PIN_BATCH_MAX_ITEMS must be positive")
	}
	if c.BatchConcurrency < 1 {
		return errors.New("config: PIN_BATCH_CONCURRENCY must be positive")
	}
	if c.AuditBufferSize < 0 {
		return errors.New("config: AUDIT_BUFFER_SIZE must not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if c.IsProduction() && c.ServiceTokenSigningKey == "" {
		return errors.New("config: SERVICE_TOKEN_SIGNING_KEY must be set when APP_ENV=production")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// AuthEnabled reports whether callers must present a service token.
func (c *Config) AuthEnabled() bool {
	return c.ServiceTokenSigningKey != ""
}
