// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the client configuration: the coordinator control plane,
// the default frontend endpoint, and channel tuning.
type Config struct {
	CoordinatorAddr string // coordinator gRPC address (default "localhost:63800")
	FrontendHost    string // default frontend host (optional; sessions can assign per handle)
	FrontendPort    int    // default frontend port (default 8182)
	AuthToken       string // token sent on channel handshakes (optional)

	LogLevel string // log level: debug, info, warn, error (default "info")
	Env      string // environment: "development" (default) or "production"

	// Channel tuning
	RequestsPerSecond float64       // sustained script submissions per second (default 50)
	Burst             int           // burst capacity (default 100)
	HandshakeTimeout  time.Duration // websocket handshake timeout (default 10s)

	// Subgraph extraction
	SubgraphTimeout time.Duration // overall extraction deadline (default 5m)

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the client is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// HasFrontend returns true when a default frontend endpoint is configured.
func (c *Config) HasFrontend() bool {
	return c.FrontendHost != ""
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.FrontendPort < 0 || c.FrontendPort > 65535 {
		return fmt.Errorf("FRONTEND_PORT out of range: %d", c.FrontendPort)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("REQUESTS_PER_SECOND must not be negative")
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables. Frontend
// variables are optional since sessions usually learn the endpoint from
// the coordinator at provisioning time.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		CoordinatorAddr: os.Getenv("COORDINATOR_ADDR"),
		FrontendHost:    os.Getenv("FRONTEND_HOST"),
		AuthToken:       os.Getenv("GRAPH_AUTH_TOKEN"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		Env:             os.Getenv("ENV"),
	}

	if v := os.Getenv("FRONTEND_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse FRONTEND_PORT: %w", err)
		}
		cfg.FrontendPort = n
	}
	if v := os.Getenv("REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("REQUEST_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Burst = n
		}
	}
	if v := os.Getenv("HANDSHAKE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HandshakeTimeout = d
		}
	}
	if v := os.Getenv("SUBGRAPH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SubgraphTimeout = d
		}
	}

	// Defaults
	if cfg.CoordinatorAddr == "" {
		cfg.CoordinatorAddr = "localhost:63800"
	}
	if cfg.FrontendPort == 0 {
		cfg.FrontendPort = 8182
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 50
	}
	if cfg.Burst == 0 {
		cfg.Burst = 100
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.SubgraphTimeout == 0 {
		cfg.SubgraphTimeout = 5 * time.Minute
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if cfg.AuthToken == "" {
			return nil, fmt.Errorf("GRAPH_AUTH_TOKEN must be set in production (ENV=production)")
		}
	} else if cfg.AuthToken == "" {
		cfg.Warnings = append(cfg.Warnings, "GRAPH_AUTH_TOKEN not set — channel handshakes are unauthenticated")
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
