// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite by default, got %q", cfg.DatabaseType)
	}
	if len(cfg.OverpassURLs) != 2 {
		t.Errorf("expected 2 default overpass URLs, got %v", cfg.OverpassURLs)
	}
	if cfg.LookupTimeout != 12*time.Second {
		t.Errorf("expected 12s lookup timeout, got %v", cfg.LookupTimeout)
	}
	if cfg.EmailEnabled || cfg.SMSEnabled {
		t.Error("notifications should be disabled by default")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("OVERPASS_URLS", "http://a.example,http://b.example,http://c.example")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("RESTAURANT_RATE_WINDOW", "30s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if len(cfg.OverpassURLs) != 3 || cfg.OverpassURLs[2] != "http://c.example" {
		t.Errorf("unexpected overpass URLs: %v", cfg.OverpassURLs)
	}
	if !cfg.EmailEnabled {
		t.Error("expected email enabled")
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("expected 30s window, got %v", cfg.RateLimitWindow)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "test.db", "-t", "sqlite"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "test.db" {
		t.Errorf("expected test.db, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port env", map[string]string{"PORT": "abc"}, nil},
		{"port out of range", nil, []string{"-p", "70000"}},
		{"unknown database type", nil, []string{"-t", "mysql"}},
		{"empty database url", nil, []string{"-d", ""}},
		{"zero rate limit", map[string]string{"RESTAURANT_RATE_LIMIT": "0"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
