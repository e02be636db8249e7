// Package config loads service settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/msomdec/accounts/internal/credential"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minSessionSecretLen = 32
)

// Config holds every runtime setting of the service.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"accounts.db"`
	DatabaseURL    string `env:"DATABASE_URL"`

	SessionSecret string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	// Default to secure cookies; disable only for local development.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ScryptN         int `env:"SCRYPT_N" envDefault:"16384"`
	ScryptR         int `env:"SCRYPT_R" envDefault:"8"`
	ScryptP         int `env:"SCRYPT_P" envDefault:"1"`
	HashConcurrency int `env:"HASH_CONCURRENCY" envDefault:"4"`

	SigninRate  float64 `env:"SIGNIN_RATE" envDefault:"0.2"`
	SigninBurst float64 `env:"SIGNIN_BURST" envDefault:"5"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters for HMAC-SHA256 security", minSessionSecretLen)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if err := c.Scrypt().Validate(); err != nil {
		return fmt.Errorf("scrypt parameters: %w", err)
	}
	if c.HashConcurrency < 1 {
		return fmt.Errorf("HASH_CONCURRENCY must be at least 1, got %d", c.HashConcurrency)
	}
	if c.SigninRate < 0 || c.SigninBurst < 1 {
		return fmt.Errorf("SIGNIN_RATE must be >= 0 and SIGNIN_BURST >= 1")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Scrypt returns the credential parameters described by the config.
func (c *Config) Scrypt() credential.Params {
	p := credential.DefaultParams()
	p.N, p.R, p.P = c.ScryptN, c.ScryptR, c.ScryptP
	return p
}

// SlogLevel converts LOG_LEVEL to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
}
