// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from SPACE_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	DBPath        string `env:"SPACE_DB_PATH" envDefault:"./data/spacecms.db"`
	SessionSecret string `env:"SPACE_SESSION_SECRET,required"`
	ServerHost    string `env:"SPACE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SPACE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SPACE_ENV" envDefault:"development"`
	LogLevel      string `env:"SPACE_LOG_LEVEL" envDefault:"info"`

	// Cache configuration. An empty SPACE_REDIS_URL selects the in-memory
	// backend.
	RedisURL    string `env:"SPACE_REDIS_URL"`
	CachePrefix string `env:"SPACE_CACHE_PREFIX" envDefault:"spacecms:"`
	CacheTTL    int    `env:"SPACE_CACHE_TTL" envDefault:"3600"` // seconds

	// EventRetentionDays is how long audit events are kept before the
	// nightly purge removes them.
	EventRetentionDays int `env:"SPACE_EVENT_RETENTION_DAYS" envDefault:"90"`

	// DoSeed installs the demo accounts and default content on startup
	// when the operators table is empty.
	DoSeed bool `env:"SPACE_DO_SEED" envDefault:"true"`
}

// IsDevelopment returns true when running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the listen address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention returns the audit retention window as a duration.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// MinSessionSecretLength is the minimum length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SPACE_SESSION_SECRET must be at least %d bytes long, got %d; "+
			"generate one with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SPACE_SESSION_SECRET is a known default value and must not be used; " +
				"generate one with: openssl rand -base64 32")
		}
	}
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SPACE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character
// classes (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`") {
		charTypes++
	}
	return charTypes >= 3
}
