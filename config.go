package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all environment variables for the storefront API.
type Config struct {
	Port           string
	Env            string
	MongoURL       string
	MongoDBName    string
	RedisURL       string // optional; caching and distributed cart locks are off without it
	JWTSecret      string
	AllowedOrigins string
	SearchCacheTTL time.Duration
	CartLockTTL    time.Duration
	RequestTimeout time.Duration
	// TrustGatewayHeaders accepts X-User-ID as the customer identity. Only
	// for deployments behind a gateway that sets it.
	TrustGatewayHeaders bool
}

// LoadConfig loads environment variables into Config and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		Env:            getenv("APP_ENV", "development"),
		MongoURL:       getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName:    getenv("MONGO_DB_NAME", "abcdmarket"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		SearchCacheTTL: durationEnv("SEARCH_CACHE_TTL", 10*time.Minute),
		CartLockTTL:    durationEnv("CART_LOCK_TTL", 5*time.Second),
		RequestTimeout: durationEnv("REQUEST_TIMEOUT", 30*time.Second),

		TrustGatewayHeaders: boolEnv("TRUST_GATEWAY_HEADERS", false),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durationEnv parses a Go duration such as "90s". Bad values keep def.
func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		zap.L().Warn("Ignoring invalid duration", zap.String("key", key), zap.String("value", raw))
		return def
	}
	return d
}

func boolEnv(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		zap.L().Warn("Ignoring invalid boolean", zap.String("key", key), zap.String("value", raw))
		return def
	}
	return b
}
