package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Driver != DriverMongo || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AuditWorkers != 8 || !cfg.IsDevelopment() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.RequireJWTSecret(); err == nil {
		t.Error("expected missing JWT_SECRET to be reported")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":   "postgres",
		"POSTGRES_DSN":   "postgres://x",
		"TOKEN_TTL":      "90m",
		"JWT_SECRET":     "s",
		"ADMIN_EMAIL":    "root@example.com",
		"ADMIN_PASSWORD": "pw",
		"REDIS_PASSWORD": "secret",
		"REDIS_TLS":      "true",
		"REDIS_TIMEOUT":  "2s",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Driver != DriverPostgres || cfg.Postgres.DSN != "postgres://x" {
		t.Errorf("unexpected store config: %+v %+v", cfg.Store, cfg.Postgres)
	}
	if cfg.Redis.Password != "secret" || !cfg.Redis.TLS || cfg.Redis.Timeout != 2*time.Second {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("TokenTTL = %s", cfg.TokenTTL)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		t.Error(err)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"admin without password", map[string]string{"ADMIN_EMAIL": "a@b.c"}, "ADMIN_PASSWORD"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}
