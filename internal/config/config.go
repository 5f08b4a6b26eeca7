// Package config loads gymdesk settings from GYMDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// CSRFKeyLength is the byte length gorilla/csrf requires for its auth key.
const CSRFKeyLength = 32

// Config is the process configuration. Zero values are never used directly;
// Load applies envDefault tags.
type Config struct {
	Addr   string `env:"GYMDESK_ADDR"    envDefault:":8080"`
	DBPath string `env:"GYMDESK_DB_PATH" envDefault:"gymdesk.db"`
	Env    string `env:"GYMDESK_ENV"     envDefault:"development"`

	CSRFKey string `env:"GYMDESK_CSRF_KEY"`

	ResendKey string `env:"GYMDESK_RESEND_KEY"`
	EmailFrom string `env:"GYMDESK_EMAIL_FROM" envDefault:"Gym <noreply@example.com>"`
	ReplyTo   string `env:"GYMDESK_REPLY_TO"`

	// ReminderSchedule is a standard five-field cron spec; empty disables the sweep.
	ReminderSchedule string `env:"GYMDESK_REMINDER_SCHEDULE" envDefault:"0 9 * * *"`

	RateLimit float64 `env:"GYMDESK_RATE_LIMIT" envDefault:"5"`
	RateBurst int     `env:"GYMDESK_RATE_BURST" envDefault:"10"`

	SlowQueryMs   int `env:"GYMDESK_SLOW_QUERY_MS"   envDefault:"50"`
	SlowRequestMs int `env:"GYMDESK_SLOW_REQUEST_MS" envDefault:"500"`

	LogFormat string `env:"GYMDESK_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"GYMDESK_LOG_LEVEL"  envDefault:"info"`

	GymName          string `env:"GYMDESK_GYM_NAME"           envDefault:"Gym"`
	PhoneCountryCode string `env:"GYMDESK_PHONE_COUNTRY_CODE" envDefault:"593"`
}

// Validation errors.
var (
	ErrInvalidEnv       = errors.New("GYMDESK_ENV must be 'development' or 'production'")
	ErrMissingCSRFKey   = errors.New("GYMDESK_CSRF_KEY must be set to 32 bytes in production")
	ErrInvalidCSRFKey   = errors.New("GYMDESK_CSRF_KEY must be exactly 32 bytes")
	ErrInvalidLogFormat = errors.New("GYMDESK_LOG_FORMAT must be 'text' or 'json'")
	ErrInvalidLogLevel  = errors.New("GYMDESK_LOG_LEVEL must be debug, info, warn, or error")
	ErrInvalidSchedule  = errors.New("GYMDESK_REMINDER_SCHEDULE is not a valid cron spec")
	ErrInvalidRateLimit = errors.New("GYMDESK_RATE_LIMIT and GYMDESK_RATE_BURST must not be negative")
	ErrEmptyGymName     = errors.New("GYMDESK_GYM_NAME cannot be empty")
)

// Load parses the environment and validates the result.
// PRE: none
// POST: Returns a validated Config or the first problem found
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field rules env tags cannot express.
func (c Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEnv, c.Env)
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != CSRFKeyLength {
		return ErrInvalidCSRFKey
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return ErrMissingCSRFKey
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.ReminderSchedule != "" {
		if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return ErrInvalidRateLimit
	}
	if strings.TrimSpace(c.GymName) == "" {
		return ErrEmptyGymName
	}
	return nil
}

// IsProduction reports whether the process runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

// NewLogHandler builds the slog handler selected by LogFormat and LogLevel.
// PRE: Validate returned nil
func (c Config) NewLogHandler(w io.Writer) slog.Handler {
	level, _ := c.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
