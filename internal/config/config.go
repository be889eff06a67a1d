// Package config loads and validates configuration from environment
// variables for both binaries: the companion daemon and the API server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Server holds all configuration values for the travelmated API server.
type Server struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// JWTSecret verifies the HS256 bearer tokens the auth middleware
	// accepts. Required.
	JWTSecret string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string

	// MaxBodyBytes caps incoming request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Companion holds all configuration values for the companiond daemon.
type Companion struct {
	// ServerURL is the base URL of the travelmated API. Required.
	ServerURL string

	// DBPath locates the local SQLite cache. Defaults to "companion.db".
	DBPath string

	// AuthToken is the bearer token used for trip calls. Required.
	AuthToken string

	// StatusAddr is the localhost address of the status/metrics API.
	// Defaults to "127.0.0.1:7040".
	StatusAddr string

	// SyncInterval is the periodic reconciliation cadence. Defaults to 15m.
	SyncInterval time.Duration

	// ProbeInterval is the connectivity polling cadence. Defaults to 30s.
	ProbeInterval time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string
}

// LoadServer reads the server configuration from environment variables.
// Returns an error listing any required variables that are not set.
func LoadServer() (Server, error) {
	cfg := Server{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MaxBodyBytes: 1 << 20,
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Server{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// LoadCompanion reads the daemon configuration from environment variables.
func LoadCompanion() (Companion, error) {
	cfg := Companion{
		DBPath:     getEnv("COMPANION_DB", "companion.db"),
		StatusAddr: getEnv("STATUS_ADDR", "127.0.0.1:7040"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	var missing []string

	cfg.ServerURL = strings.TrimRight(os.Getenv("SERVER_URL"), "/")
	if cfg.ServerURL == "" {
		missing = append(missing, "SERVER_URL")
	}
	cfg.AuthToken = os.Getenv("AUTH_TOKEN")
	if cfg.AuthToken == "" {
		missing = append(missing, "AUTH_TOKEN")
	}

	var err error
	if cfg.SyncInterval, err = getDuration("SYNC_INTERVAL", 15*time.Minute); err != nil {
		return Companion{}, err
	}
	if cfg.ProbeInterval, err = getDuration("PROBE_INTERVAL", 30*time.Second); err != nil {
		return Companion{}, err
	}

	if len(missing) > 0 {
		return Companion{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses an optional duration env var (e.g. "15m", "90s").
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
