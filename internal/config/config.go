// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"PIPECMS_DB_PATH" envDefault:"./data/pipecms.db"`
	SessionSecret string `env:"PIPECMS_SESSION_SECRET,required"`
	ServerHost    string `env:"PIPECMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PIPECMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PIPECMS_ENV" envDefault:"development"`
	SiteURL       string `env:"PIPECMS_SITE_URL" envDefault:"http://localhost:8080"`
	LogLevel      string `env:"PIPECMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"PIPECMS_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string `env:"PIPECMS_CACHE_PREFIX" envDefault:"pipecms:"` // Redis key prefix
	CacheTTL     int    `env:"PIPECMS_CACHE_TTL" envDefault:"3600"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"PIPECMS_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// SMTP relay for contact/job notification mail (Brevo-compatible).
	SMTPHost     string `env:"PIPECMS_SMTP_HOST"`
	SMTPPort     int    `env:"PIPECMS_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"PIPECMS_SMTP_USER"`
	SMTPPassword string `env:"PIPECMS_SMTP_PASSWORD"`

	// Seeding configuration
	DoSeed bool `env:"PIPECMS_DO_SEED" envDefault:"false"` // Seed demo catalog content on startup
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SMTPEnabled returns true if an outbound mail relay is configured.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PIPECMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("PIPECMS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PIPECMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
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
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
