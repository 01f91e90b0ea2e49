package config

import (
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	if cfg.JWT.TTL != 24*time.Hour {
		t.Errorf("jwt ttl = %v, want 24h", cfg.JWT.TTL)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("API_REQUIRE_AUTH", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadEnv()

	if cfg.Server.Port != ":9000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if !cfg.Server.RequireAuth {
		t.Error("RequireAuth should be true")
	}
	if cfg.JWT.TTL != 2*time.Hour {
		t.Errorf("ttl = %v", cfg.JWT.TTL)
	}
	if got := cfg.Events.KafkaBrokers; len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Errorf("brokers = %v", got)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("malformed int should fall back, got %d", cfg.Database.MaxOpenConns)
	}
}
