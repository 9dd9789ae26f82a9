// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

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

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"OFOLIO_DB_PATH" envDefault:"./data/ofolio.db"`
	SessionSecret string `env:"OFOLIO_SESSION_SECRET,required"`
	ServerHost    string `env:"OFOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"OFOLIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"OFOLIO_ENV" envDefault:"development"`
	LogLevel      string `env:"OFOLIO_LOG_LEVEL" envDefault:"info"`

	RequestTimeout time.Duration `env:"OFOLIO_REQUEST_TIMEOUT" envDefault:"30s"`

	// Cache configuration
	RedisURL     string `env:"OFOLIO_REDIS_URL"`                         // Optional Redis URL for the public listing cache
	CachePrefix  string `env:"OFOLIO_CACHE_PREFIX" envDefault:"ofolio:"` // Redis key prefix
	CacheTTL     int    `env:"OFOLIO_CACHE_TTL" envDefault:"300"`        // Listing TTL in seconds
	CacheMaxSize int    `env:"OFOLIO_CACHE_MAX_SIZE" envDefault:"1000"`  // Max memory cache entries

	// Rate limiting of the public and login endpoints
	RateLimitRPS   float64 `env:"OFOLIO_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"OFOLIO_RATE_LIMIT_BURST" envDefault:"20"`

	// Seeding configuration
	DoSeed        bool   `env:"OFOLIO_DO_SEED" envDefault:"true"` // Create the admin account on start
	AdminEmail    string `env:"OFOLIO_ADMIN_EMAIL"`
	AdminPassword string `env:"OFOLIO_ADMIN_PASSWORD"`
	SeedFile      string `env:"OFOLIO_SEED_FILE"` // YAML or JSON portfolio loaded into an empty database

	SchedulerEnabled bool `env:"OFOLIO_SCHEDULER_ENABLED" envDefault:"true"`

	// Public site, used for the sitemap and robots.txt
	SiteURL   string `env:"OFOLIO_SITE_URL" envDefault:"http://localhost:8080"`
	PostsPath string `env:"OFOLIO_POSTS_PATH" envDefault:"/blog"`
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

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog level. Unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
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
		return nil, fmt.Errorf("OFOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("OFOLIO_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("OFOLIO_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("OFOLIO_RATE_LIMIT_RPS and OFOLIO_RATE_LIMIT_BURST must be positive")
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("OFOLIO_SESSION_SECRET has low character diversity; " +
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
