// Package config provides environment-driven configuration for the
// back-office service.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL      Secret
	Port             string
	ListenHost       string
	CORSOrigins      []string
	LogLevel         string
	MaxPageSize      int
	EnableChangeFeed bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      Secret(envOrDefault("DATABASE_URL", "")),
		Port:             envOrDefault("PORT", "8080"),
		ListenHost:       envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		EnableChangeFeed: envOrDefault("ENABLE_CHANGE_FEED", "true") == "true",
	}

	maxPageSize, err := strconv.Atoi(envOrDefault("MAX_PAGE_SIZE", "200"))
	if err != nil || maxPageSize < 1 || maxPageSize > 1000 {
		return nil, fmt.Errorf("MAX_PAGE_SIZE must be an integer between 1 and 1000")
	}
	cfg.MaxPageSize = maxPageSize

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ListenHost, c.Port)
}

// envOrDefault returns the environment variable value or a default.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
