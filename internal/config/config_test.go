package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("Addr() = %q", cfg.App.Addr())
	}
	if cfg.Sweep.Interval() != 5*time.Minute {
		t.Fatalf("sweep interval = %v, want 5m", cfg.Sweep.Interval())
	}
	if cfg.Queue.Group != "ticket-triage" {
		t.Fatalf("queue group = %q", cfg.Queue.Group)
	}
	if cfg.Queue.Block() != 5*time.Second {
		t.Fatalf("queue block = %v", cfg.Queue.Block())
	}
	if cfg.Auth.Enabled() {
		t.Fatalf("auth should be disabled without AUTH_JWT_SECRET")
	}
	if !cfg.Postgres.RunMigrations {
		t.Fatalf("migrations should default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "1")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Port != "9999" {
		t.Fatalf("port = %q", cfg.App.Port)
	}
	if cfg.Sweep.Interval() != time.Minute {
		t.Fatalf("sweep interval = %v", cfg.Sweep.Interval())
	}
	if !cfg.Auth.Enabled() {
		t.Fatalf("auth should be enabled")
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("redis db = %d", cfg.Redis.DB)
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid REDIS_DB")
	}
}

func TestIntervalFallbacks(t *testing.T) {
	if (SweepConfig{IntervalMinutes: 0}).Interval() != 5*time.Minute {
		t.Fatalf("zero interval should fall back to 5m")
	}
	if (AppConfig{RequestTimeoutSeconds: 0}).RequestTimeout() != 0 {
		t.Fatalf("zero timeout should disable the timeout middleware")
	}
}
