package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`

	// Database
	DBPath        string        `env:"DB_PATH" default:"app.db"`
	DBBusyTimeout time.Duration `env:"DB_BUSY_TIMEOUT" default:"5s"`
	DBLogLevel    string        `env:"DB_LOG_LEVEL" default:"warn"`
	SeedDevData   bool          `env:"SEED_DEV_DATA" default:"false"`

	// Events
	Timezone string `env:"EVENTS_TIMEZONE" default:"UTC"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"json"`

	// Error tracking
	SentryDSN string `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location resolves EVENTS_TIMEZONE. validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func validate(cfg *Config) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if cfg.DBBusyTimeout < 0 {
		return fmt.Errorf("DB_BUSY_TIMEOUT must not be negative")
	}

	switch cfg.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("DB_LOG_LEVEL must be one of silent, error, warn, info (got %q)", cfg.DBLogLevel)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text (got %q)", cfg.LogFormat)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("EVENTS_TIMEZONE is not a valid time zone: %w", err)
	}

	return nil
}
