package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string
	DatabaseURL string

	// RedisURL is optional; when empty the pending-event buffer is
	// disabled and no-destination events are dropped after logging.
	RedisURL string

	// Tenants is the known tenant set. Tenant ids double as the
	// per-tenant Postgres schema names, so nothing outside this list
	// ever reaches a query.
	Tenants []string

	PollTimeout          time.Duration
	ReconnectMinBackoff  time.Duration
	ReconnectMaxBackoff  time.Duration
	MaxReconnectAttempts int
	PendingBufferTTL     time.Duration
}

// Load reads configuration from the environment, honoring a local
// .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		Tenants:              splitList(getEnv("TENANTS", "company_a,company_b,company_c")),
		PollTimeout:          getEnvDuration("POLL_TIMEOUT", time.Second),
		ReconnectMinBackoff:  getEnvDuration("RECONNECT_MIN_BACKOFF", time.Second),
		ReconnectMaxBackoff:  getEnvDuration("RECONNECT_MAX_BACKOFF", 30*time.Second),
		MaxReconnectAttempts: getEnvInt("MAX_RECONNECT_ATTEMPTS", 0),
		PendingBufferTTL:     getEnvDuration("PENDING_BUFFER_TTL", 0),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if len(cfg.Tenants) == 0 {
		return nil, fmt.Errorf("TENANTS must name at least one tenant")
	}
	if cfg.PendingBufferTTL > 0 && cfg.RedisURL == "" {
		return nil, fmt.Errorf("PENDING_BUFFER_TTL requires REDIS_URL")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
