package config

import (
	"os"
	"time"
)

// Config is the process-wide configuration, loaded once at startup and
// never mutated afterwards.
type Config struct {
	AppPort string

	DatabaseDriver string
	DatabaseDSN    string

	SessionStore string // "file" or "cache"
	SessionDir   string
	SessionTTL   time.Duration

	JWTSecret    string
	JWTExpiresIn time.Duration

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from the environment with development defaults.
func Load() Config {
	return Config{
		AppPort: getenv("APP_PORT", "3002"),

		DatabaseDriver: getenv("DATABASE_DRIVER", "sqlite3"),
		DatabaseDSN:    getenv("DATABASE_DSN", "./contact_book.db"),

		SessionStore: getenv("SESSION_STORE", "file"),
		SessionDir:   getenv("SESSION_DIR", "./sessions"),
		SessionTTL:   getduration("SESSION_TTL", 20*time.Minute),

		JWTSecret:    getenv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiresIn: getduration("JWT_EXPIRES_IN", 24*time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
