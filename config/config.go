package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds everything read from the environment (and an optional .env file).
type Config struct {
	Port           string
	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	UserCacheTTL   time.Duration
	AllowedOrigins []string
	LogLevel       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Load reads .env when present and falls back to defaults for anything unset.
func Load() (Config, error) {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "social_db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.StoreDriver != StoreMongo && cfg.StoreDriver != StoreMemory {
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: want %q or %q", cfg.StoreDriver, StoreMongo, StoreMemory)
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}
	if cfg.UserCacheTTL, err = time.ParseDuration(getEnv("USER_CACHE_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("invalid USER_CACHE_TTL value: %w", err)
	}
	if cfg.UserCacheTTL < time.Millisecond {
		return Config{}, fmt.Errorf("invalid USER_CACHE_TTL value %s: must be at least 1ms", cfg.UserCacheTTL)
	}
	if cfg.ReadTimeout, err = time.ParseDuration(getEnv("READ_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("invalid READ_TIMEOUT value: %w", err)
	}
	if cfg.WriteTimeout, err = time.ParseDuration(getEnv("WRITE_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("invalid WRITE_TIMEOUT value: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
