package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CUSTODIA_AUTH_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.TokenTTL != 8*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.RateBurst != 20 || cfg.RatePerSec != 10 {
		t.Fatalf("rate defaults = %d/%d", cfg.RateBurst, cfg.RatePerSec)
	}
	if cfg.PGDSN != "" {
		t.Fatalf("PGDSN should default empty, got %q", cfg.PGDSN)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CUSTODIA_AUTH_SECRET", "test-secret")
	t.Setenv("CUSTODIA_ADDR", ":9090")
	t.Setenv("CUSTODIA_TOKEN_TTL", "30m")
	t.Setenv("CUSTODIA_PG_DSN", "postgres://localhost/custodia")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.PGDSN != "postgres://localhost/custodia" {
		t.Fatalf("PGDSN = %q", cfg.PGDSN)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CUSTODIA_AUTH_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without auth secret")
	}
}
