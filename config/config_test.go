package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_ENV", "JWT_SECRET", "DB_DRIVER", "SERVER_PORT", "ALLOWED_ORIGINS", "FRONTEND_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDevelopmentDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
app:
  env: development
auth:
  jwtSecret: file-secret
database:
  driver: sqlite
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cookie.IsSecure() {
		t.Fatalf("development cookie must not be secure")
	}
	if cfg.Cookie.SameSite != "Lax" {
		t.Fatalf("expected Lax, got %q", cfg.Cookie.SameSite)
	}
	if cfg.Auth.AccessTTL() != 30*time.Minute {
		t.Fatalf("access ttl = %v", cfg.Auth.AccessTTL())
	}
	if cfg.Auth.RefreshTTL() != 10*24*time.Hour {
		t.Fatalf("refresh ttl = %v", cfg.Auth.RefreshTTL())
	}
	if cfg.Auth.ResetTTL() != 15*time.Minute {
		t.Fatalf("reset ttl = %v", cfg.Auth.ResetTTL())
	}
	if cfg.Cookie.MaxAge != int((10 * 24 * time.Hour).Seconds()) {
		t.Fatalf("cookie max age = %d", cfg.Cookie.MaxAge)
	}
}

func TestLoadProductionCookiePolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "env-secret")
	path := writeConfig(t, "database:\n  driver: postgres\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Cookie.IsSecure() || cfg.Cookie.SameSite != "None" {
		t.Fatalf("production cookie policy = secure:%v sameSite:%q", cfg.Cookie.IsSecure(), cfg.Cookie.SameSite)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("env override not applied")
	}
}

func TestLoadExplicitCookieWins(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
app:
  env: production
auth:
  jwtSecret: s
cookie:
  secure: true
  sameSite: Strict
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cookie.SameSite != "Strict" {
		t.Fatalf("explicit sameSite overwritten: %q", cfg.Cookie.SameSite)
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "app:\n  env: development\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty jwt secret")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "auth:\n  jwtSecret: s\ndatabase:\n  driver: mongo\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "only-env")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.Server.AllowedOrigins)
	}
}
