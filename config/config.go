// ABOUTME: Configuration loader for the Tranquil dashboard gateway
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port               string
	AuthMode           string   // disabled, optional, required (default: optional)
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	CookieSecure       bool     // Set Secure flag on session cookies (default: true)

	// Upstream Tranquil API
	APIBaseURL      string // base URL of the backend REST API (required)
	UpstreamTimeout int    // seconds, timeout for upstream HTTP calls (default 30)

	// Session lifecycle
	TokenTTL      int    // seconds the access token is assumed valid (default 3600)
	RefreshMargin int    // seconds before expiry to refresh (default 300)
	SessionFile   string // path of the file-backed session store (default tranquil-auth.json)

	// Redis session store (optional; file store is used when unset)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Caching
	CacheTTL     int // seconds, default for general cache
	DashboardTTL int // seconds, for aggregated dashboard data (default 30s)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAuth    int  // Requests per minute for auth endpoints (default: 5)
	RateLimitRefresh int  // Requests per minute for refresh endpoint (default: 10)
	RateLimitWrite   int  // Requests per minute for write endpoints (default: 10)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)
}

// RedisConfigured returns true if a Redis session store address is set
func (c *Config) RedisConfigured() bool {
	return c.RedisAddr != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		AuthMode:           getEnv("AUTH_MODE", "required"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),

		APIBaseURL:      ensureScheme(os.Getenv("TRANQUIL_API_URL")),
		UpstreamTimeout: getEnvInt("UPSTREAM_TIMEOUT", 30),

		TokenTTL:      getEnvInt("TOKEN_TTL", 3600),
		RefreshMargin: getEnvInt("REFRESH_MARGIN", 300),
		SessionFile:   getEnv("SESSION_FILE", "tranquil-auth.json"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheTTL:     getEnvInt("CACHE_TTL", 300),
		DashboardTTL: getEnvInt("DASHBOARD_CACHE_TTL", 30),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 5),
		RateLimitRefresh: getEnvInt("RATE_LIMIT_REFRESH", 10),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 10),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	// Validate required fields
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("TRANQUIL_API_URL is required")
	}

	// The refresh margin must leave room for at least one deferred refresh
	if cfg.RefreshMargin <= 0 {
		return nil, fmt.Errorf("REFRESH_MARGIN must be positive, got %d", cfg.RefreshMargin)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %d", cfg.TokenTTL)
	}
	// A margin at or above the TTL would make every armed token refresh
	// immediately, refreshing in a tight loop
	if cfg.RefreshMargin >= cfg.TokenTTL {
		return nil, fmt.Errorf("REFRESH_MARGIN (%d) must be less than TOKEN_TTL (%d)", cfg.RefreshMargin, cfg.TokenTTL)
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_AUTH", cfg.RateLimitAuth},
		{"RATE_LIMIT_REFRESH", cfg.RateLimitRefresh},
		{"RATE_LIMIT_WRITE", cfg.RateLimitWrite},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
