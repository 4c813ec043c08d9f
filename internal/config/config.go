package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend identifiers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all runtime settings for the auction bot
type Config struct {
	// Telegram
	TelegramToken   string
	TelegramBaseURL string
	PollTimeout     int // long-poll timeout in seconds

	// Storage
	Storage     string // "memory" or "postgres"
	PostgresDSN string

	// Redis user cache (optional, postgres backend only)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// HTTP Server
	HTTPPort string

	// Lifecycle
	SweepInterval time.Duration
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() (*Config, error) {
	// a missing .env file is fine, real env vars still apply
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		TelegramBaseURL: getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		PollTimeout:     getEnvInt("TELEGRAM_POLL_TIMEOUT", 30),
		Storage:         getEnv("STORAGE", StorageMemory),
		PostgresDSN:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		HTTPPort:        getEnv("PORT", "8080"),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", 60*time.Second),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("config: TELEGRAM_TOKEN is required")
	}
	if cfg.Storage != StorageMemory && cfg.Storage != StoragePostgres {
		return nil, fmt.Errorf("config: unknown STORAGE %q", cfg.Storage)
	}
	if cfg.Storage == StoragePostgres && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required for postgres storage")
	}

	return cfg, nil
}

// getEnv returns the env value or a default when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the env value parsed as int or a default
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration returns the env value parsed as time.Duration or a default
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
