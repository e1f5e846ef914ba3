package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the process configuration, read once from the environment at
// startup and treated as immutable.
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	AuthSecret   string
	SessionTTL   time.Duration
	TokenTTL     time.Duration
	TokenLeeway  time.Duration
	CookieSecure bool

	// Maintenance
	SweepInterval time.Duration

	// Server
	ServerPort string
}

// LoadConfig reads configuration from environment variables, applying
// defaults for everything except the database URL and signing secret.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AuthSecret:  os.Getenv("AUTH_SECRET"),

		SessionTTL:  getEnvDuration("SESSION_TTL", time.Hour),
		TokenTTL:    getEnvDuration("TOKEN_TTL", time.Hour),
		TokenLeeway: getEnvDuration("TOKEN_LEEWAY", 2*time.Second),

		CookieSecure:  getEnvBool("COOKIE_SECURE", true),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),
		ServerPort:    getEnvString("SERVER_PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}

	return cfg, nil
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
