// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthConfig provides settings needed by the auth service.
type AuthConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetAdminEmails() []string
	GetAdminPasswordHash() string
	IsAdminEmail(email string) bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// ShortenerConfig provides settings for the link shortening provider.
type ShortenerConfig interface {
	GetShortenerBaseURL() string
	GetShortenerUserID() string
	GetShortenerAPIKey() string
}

// WebhookConfig provides settings for outbound webhook notifications.
type WebhookConfig interface {
	GetRequestWebhookURL() string
	GetAnnounceWebhookURL() string
	IsAnnounceEnabled() bool
}

// SearchConfig provides settings for the search resolver and its
// fallback snapshot cache.
type SearchConfig interface {
	GetRedisAddr() string
	GetSnapshotTTL() time.Duration
	IsSnapshotCacheEnabled() bool
}

// AutocompleteConfig provides settings for live autocomplete sessions.
type AutocompleteConfig interface {
	GetDebounceDelay() time.Duration
	GetSessionIdleTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	JWTAccessSecret    string
	AccessTokenTTL     time.Duration
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	AdminEmails        []string
	AdminPasswordHash  string
	ShortenerBaseURL   string
	ShortenerUserID    string
	ShortenerAPIKey    string
	RequestWebhookURL  string
	AnnounceWebhookURL string
	RedisAddr          string
	SnapshotTTL        time.Duration
	DebounceDelay      time.Duration
	SessionIdleTTL     time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }
func (c *Config) GetAdminEmails() []string         { return c.AdminEmails }
func (c *Config) GetAdminPasswordHash() string     { return c.AdminPasswordHash }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// ShortenerConfig implementation
func (c *Config) GetShortenerBaseURL() string { return c.ShortenerBaseURL }
func (c *Config) GetShortenerUserID() string  { return c.ShortenerUserID }
func (c *Config) GetShortenerAPIKey() string  { return c.ShortenerAPIKey }

// WebhookConfig implementation
func (c *Config) GetRequestWebhookURL() string  { return c.RequestWebhookURL }
func (c *Config) GetAnnounceWebhookURL() string { return c.AnnounceWebhookURL }
func (c *Config) IsAnnounceEnabled() bool       { return c.AnnounceWebhookURL != "" }

// SearchConfig implementation
func (c *Config) GetRedisAddr() string          { return c.RedisAddr }
func (c *Config) GetSnapshotTTL() time.Duration { return c.SnapshotTTL }
func (c *Config) IsSnapshotCacheEnabled() bool {
	return c.RedisAddr != "" && c.SnapshotTTL > 0
}

// AutocompleteConfig implementation
func (c *Config) GetDebounceDelay() time.Duration  { return c.DebounceDelay }
func (c *Config) GetSessionIdleTTL() time.Duration { return c.SessionIdleTTL }

// IsAdminEmail reports whether the given email is on the configured
// admin allow-list. Comparison is case-insensitive.
func (c *Config) IsAdminEmail(email string) bool {
	for _, allowed := range c.AdminEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTAccessSecret:    getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:     mustDuration(getEnv("JWT_ACCESS_TTL", "12h")),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AdminEmails:        splitCSV(getEnv("ADMIN_EMAILS", "")),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		ShortenerBaseURL:   getEnv("SHORTENER_BASE_URL", "https://www.clictune.com"),
		ShortenerUserID:    getEnv("SHORTENER_USER_ID", ""),
		ShortenerAPIKey:    getEnv("SHORTENER_API_KEY", ""),
		RequestWebhookURL:  getEnv("REQUEST_WEBHOOK_URL", ""),
		AnnounceWebhookURL: getEnv("ANNOUNCE_WEBHOOK_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		SnapshotTTL:        mustDuration(getEnv("SEARCH_SNAPSHOT_TTL", "10m")),
		DebounceDelay:      mustDuration(getEnv("AUTOCOMPLETE_DEBOUNCE", "450ms")),
		SessionIdleTTL:     mustDuration(getEnv("AUTOCOMPLETE_SESSION_TTL", "10m")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if len(cfg.AdminEmails) == 0 {
		return nil, fmt.Errorf("ADMIN_EMAILS is required")
	}
	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}
	if cfg.ShortenerUserID == "" || cfg.ShortenerAPIKey == "" {
		return nil, fmt.Errorf("SHORTENER_USER_ID and SHORTENER_API_KEY are required")
	}
	if cfg.RequestWebhookURL == "" {
		return nil, fmt.Errorf("REQUEST_WEBHOOK_URL is required")
	}
	if cfg.DebounceDelay < 400*time.Millisecond || cfg.DebounceDelay > 500*time.Millisecond {
		return nil, fmt.Errorf("AUTOCOMPLETE_DEBOUNCE must be between 400ms and 500ms")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
