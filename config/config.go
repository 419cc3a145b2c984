package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"3000" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// CookieDomain scopes the session cookie; the login subdomain hangs
	// off it too.
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:"localhost"`

	// LoginBaseURL overrides the derived https://login.<domain>[:port]
	// base used in emailed links.
	LoginBaseURL string `env:"LOGIN_BASE_URL"`

	// AdminAPIKey guards programmatic user creation/retrieval.
	AdminAPIKey string `env:"ADMIN_API_KEY,required" validate:"required,min=16"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	// CleanupCron, when set (e.g. "0 4 * * *"), runs the stale-session
	// sweep on a schedule in addition to the manual admin endpoint.
	CleanupCron          string `env:"CLEANUP_CRON"`
	CleanupThresholdDays int    `env:"CLEANUP_THRESHOLD_DAYS" envDefault:"30" validate:"min=1"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoginURL is the external base for emailed magic links. Production drops
// the port; everywhere else keeps it.
func (c *Config) LoginURL() string {
	if c.LoginBaseURL != "" {
		return strings.TrimRight(c.LoginBaseURL, "/")
	}
	if c.Env == "production" {
		return "https://login." + c.CookieDomain
	}
	return "https://login." + c.CookieDomain + ":" + c.Port
}

// CookieSecure reports whether session cookies should carry the Secure
// flag. Local dev runs without TLS.
func (c *Config) CookieSecure() bool {
	return c.Env != "local"
}
