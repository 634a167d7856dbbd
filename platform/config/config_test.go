package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/gamedrop")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("ADMIN_EMAILS", "admin@example.com, second@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("SHORTENER_USER_ID", "42")
	t.Setenv("SHORTENER_API_KEY", "key")
	t.Setenv("REQUEST_WEBHOOK_URL", "https://discord.example/webhook")
}

func TestLoadWithRequiredEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GetHTTPAddr() != ":8080" {
		t.Errorf("http addr = %q", cfg.GetHTTPAddr())
	}
	if cfg.GetDebounceDelay() != 450*time.Millisecond {
		t.Errorf("debounce = %v", cfg.GetDebounceDelay())
	}
	if cfg.IsSnapshotCacheEnabled() {
		t.Error("snapshot cache enabled without REDIS_ADDR")
	}
	if len(cfg.GetAdminEmails()) != 2 {
		t.Errorf("admin emails = %v", cfg.GetAdminEmails())
	}
}

func TestLoadRequiresEachSecret(t *testing.T) {
	required := []string{
		"DATABASE_URL",
		"JWT_ACCESS_SECRET",
		"ADMIN_EMAILS",
		"ADMIN_PASSWORD_HASH",
		"SHORTENER_USER_ID",
		"REQUEST_WEBHOOK_URL",
	}
	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, "")
			if _, err := Load(); err == nil {
				t.Fatalf("Load succeeded without %s", key)
			}
		})
	}
}

func TestLoadRejectsDebounceOutsideWindow(t *testing.T) {
	for _, value := range []string{"300ms", "399ms", "501ms", "2s"} {
		t.Run(value, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("AUTOCOMPLETE_DEBOUNCE", value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted debounce %s", value)
			}
		})
	}

	setRequiredEnv(t)
	t.Setenv("AUTOCOMPLETE_DEBOUNCE", "400ms")
	if _, err := Load(); err != nil {
		t.Fatalf("Load rejected 400ms: %v", err)
	}
}

func TestSnapshotCacheEnabledWithRedis(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SEARCH_SNAPSHOT_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.IsSnapshotCacheEnabled() {
		t.Fatal("snapshot cache disabled despite REDIS_ADDR and TTL")
	}
	if cfg.GetSnapshotTTL() != 5*time.Minute {
		t.Errorf("ttl = %v", cfg.GetSnapshotTTL())
	}
}

func TestIsAdminEmailCaseInsensitive(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"Admin@Example.com"}}

	if !cfg.IsAdminEmail("admin@example.com") {
		t.Error("lowercase variant rejected")
	}
	if !cfg.IsAdminEmail("ADMIN@EXAMPLE.COM") {
		t.Error("uppercase variant rejected")
	}
	if cfg.IsAdminEmail("other@example.com") {
		t.Error("unknown email accepted")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted wildcard origins with credentials")
	}
}
