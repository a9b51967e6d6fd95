package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/notify")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "8080")
	}
	if len(cfg.Tenants) != 3 {
		t.Errorf("expected 3 default tenants, got %v", cfg.Tenants)
	}
	if cfg.PollTimeout != time.Second {
		t.Errorf("PollTimeout: got %v", cfg.PollTimeout)
	}
	if cfg.ReconnectMaxBackoff != 30*time.Second {
		t.Errorf("ReconnectMaxBackoff: got %v", cfg.ReconnectMaxBackoff)
	}
	if cfg.PendingBufferTTL != 0 {
		t.Errorf("buffer should be disabled by default, TTL = %v", cfg.PendingBufferTTL)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error with no DATABASE_URL")
	}
}

func TestLoad_TenantListParsing(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/notify")
	t.Setenv("TENANTS", " acme , globex ,, initech ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := []string{"acme", "globex", "initech"}
	if len(cfg.Tenants) != len(want) {
		t.Fatalf("Tenants: got %v, want %v", cfg.Tenants, want)
	}
	for i := range want {
		if cfg.Tenants[i] != want[i] {
			t.Errorf("Tenants[%d]: got %q, want %q", i, cfg.Tenants[i], want[i])
		}
	}
}

func TestLoad_BufferRequiresRedis(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/notify")
	t.Setenv("PENDING_BUFFER_TTL", "30s")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when buffer TTL is set without redis")
	}
}

func TestLoad_Durations(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/notify")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("POLL_TIMEOUT", "250ms")
	t.Setenv("RECONNECT_MIN_BACKOFF", "2s")
	t.Setenv("PENDING_BUFFER_TTL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.PollTimeout != 250*time.Millisecond {
		t.Errorf("PollTimeout: got %v", cfg.PollTimeout)
	}
	if cfg.ReconnectMinBackoff != 2*time.Second {
		t.Errorf("ReconnectMinBackoff: got %v", cfg.ReconnectMinBackoff)
	}
	if cfg.PendingBufferTTL != time.Minute {
		t.Errorf("PendingBufferTTL: got %v", cfg.PendingBufferTTL)
	}
}
