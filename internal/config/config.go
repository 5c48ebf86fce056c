package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	AutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SelectionCacheTTL   time.Duration
	SelectionBatchSize  int
	SelectionIdentifier string
}

// FromEnv loads configuration from the environment, reading a .env
// file first when one is present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:            envDefault("HTTP_ADDR", ":8080"),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		LogLevel:            envDefault("LOG_LEVEL", "info"),
		AutoMigrate:         envBoolDefault("DB_AUTO_MIGRATE", false),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             envIntDefault("REDIS_DB", 0),
		SelectionCacheTTL:   time.Duration(envIntDefault("SELECTION_CACHE_TTL_SECONDS", 300)) * time.Second,
		SelectionBatchSize:  envIntDefault("SELECTION_BATCH_SIZE", 10),
		SelectionIdentifier: envDefault("SELECTION_GENERATED_BY", "scheduler"),
	}
}

func envDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func envIntDefault(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBoolDefault(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
