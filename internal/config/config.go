package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the API process reads from its environment.
type Config struct {
	HTTPAddr     string
	PostgresDSN  string
	AuthSecret   string
	TokenTTL     time.Duration
	RateBurst    int
	RatePerSec   int
	MaxBodyBytes int64
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development. An empty PostgresDSN selects the in-memory
// stores.
func Load() Config {
	return Config{
		HTTPAddr:     getenv("ENVIROOPS_HTTP_ADDR", ":8080"),
		PostgresDSN:  getenv("ENVIROOPS_PG_DSN", ""),
		AuthSecret:   getenv("ENVIROOPS_AUTH_SECRET", ""),
		TokenTTL:     getenvDuration("ENVIROOPS_TOKEN_TTL", 15*time.Minute),
		RateBurst:    getenvInt("ENVIROOPS_RATE_BURST", 20),
		RatePerSec:   getenvInt("ENVIROOPS_RATE_PER_SEC", 10),
		MaxBodyBytes: int64(getenvInt("ENVIROOPS_MAX_BODY_BYTES", 1<<20)),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
