// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"3318"`
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"chowsr.db"`
	DatabaseType  string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5173"`
	StaticDir     string `env:"STATIC_DIR" envDefault:"client/dist"`
	TrustProxy    bool   `env:"TRUST_PROXY" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Restaurant lookup backends
	GeocodeURL      string        `env:"GEOCODE_URL" envDefault:"https://nominatim.openstreetmap.org/search"`
	OverpassURLs    []string      `env:"OVERPASS_URLS" envSeparator:"," envDefault:"https://overpass-api.de/api/interpreter,https://overpass.kumi.systems/api/interpreter"`
	LookupTimeout   time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"12s"`
	LookupUserAgent string        `env:"LOOKUP_USER_AGENT" envDefault:"chowsr/1.0"`

	RateLimit       int           `env:"RESTAURANT_RATE_LIMIT" envDefault:"20"`
	RateLimitWindow time.Duration `env:"RESTAURANT_RATE_WINDOW" envDefault:"1m"`

	// Email notifications
	EmailEnabled bool   `env:"EMAIL_ENABLED" envDefault:"false"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	MailFrom     string `env:"MAIL_FROM"`

	// SMS notifications
	SMSEnabled       bool   `env:"SMS_ENABLED" envDefault:"false"`
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_FROM"`
	TwilioBaseURL    string `env:"TWILIO_BASE_URL" envDefault:"https://api.twilio.com"`
}

// ParseFlags reads the environment, then applies CLI overrides and validates
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("chowsr", flag.ContinueOnError)

	// CLI wins over env; defaults come from what env already resolved
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL or SQLite file path")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Directory of the built client bundle")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if len(cfg.OverpassURLs) == 0 {
		return Config{}, errors.New("at least one OVERPASS_URLS entry required")
	}
	if cfg.RateLimit <= 0 || cfg.RateLimitWindow <= 0 {
		return Config{}, errors.New("restaurant rate limit and window must be positive")
	}

	return cfg, nil
}
