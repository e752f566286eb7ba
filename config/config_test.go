package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("SECRET_TOKEN", "bot")
}

func TestLoadMockDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("MOCK_APIS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Tracker.SeedProductName != "Beer" || cfg.Tracker.SeedProductCalories != 43 {
		t.Errorf("seed product = %s/%d, want Beer/43", cfg.Tracker.SeedProductName, cfg.Tracker.SeedProductCalories)
	}
	if cfg.Auth.TokenTTL != 72*time.Hour {
		t.Errorf("TokenTTL = %v, want 72h", cfg.Auth.TokenTTL)
	}
	if !cfg.MockAPIs {
		t.Error("MOCK_APIS not honored")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MOCK_APIS", "true")
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("SEED_PRODUCT_NAME", "Kvass")
	t.Setenv("SEED_PRODUCT_CALORIES", "27")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Tracker.SeedProductName != "Kvass" || cfg.Tracker.SeedProductCalories != 27 {
		t.Errorf("seed product = %s/%d, want Kvass/27", cfg.Tracker.SeedProductName, cfg.Tracker.SeedProductCalories)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.Auth.TokenTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{
			"SECRET_TOKEN": "bot",
			"MOCK_APIS":    "true",
		}},
		{"missing bot secret", map[string]string{
			"JWT_SECRET": "jwt",
			"MOCK_APIS":  "true",
		}},
		{"real mode without database", map[string]string{
			"JWT_SECRET":   "jwt",
			"SECRET_TOKEN": "bot",
		}},
		{"real mode without fatsecret credentials", map[string]string{
			"JWT_SECRET":    "jwt",
			"SECRET_TOKEN":  "bot",
			"POSTGRES_USER": "app",
			"POSTGRES_DB":   "tracker",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// neutralize anything set by an outer environment
			for _, key := range []string{
				"JWT_SECRET", "SECRET_TOKEN", "MOCK_APIS",
				"POSTGRES_USER", "POSTGRES_DB",
				"FATSECRET_CONSUMER_KEY", "FATSECRET_CONSUMER_SECRET",
				"HUMAN_API_ACCESS_TOKEN",
			} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
