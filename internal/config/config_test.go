package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("DISPATCH_INTERVAL")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DispatchInterval != 60*time.Second {
		t.Errorf("DispatchInterval = %v, want 60s", cfg.DispatchInterval)
	}
	if cfg.StorageBucket != "storefront" {
		t.Errorf("StorageBucket = %q, want storefront", cfg.StorageBucket)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DISPATCH_INTERVAL", "30s")
	t.Setenv("MAX_RETRIES", "5")

	cfg := Load()
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.DispatchInterval != 30*time.Second {
		t.Errorf("DispatchInterval = %v, want 30s", cfg.DispatchInterval)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nDOTENV_TEST_KEY=hello\nDOTENV_QUOTED=\"world\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_TEST_KEY", "")
	t.Setenv("DOTENV_QUOTED", "")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("DOTENV_TEST_KEY"); got != "hello" {
		t.Errorf("DOTENV_TEST_KEY = %q, want hello", got)
	}
	if got := os.Getenv("DOTENV_QUOTED"); got != "world" {
		t.Errorf("DOTENV_QUOTED = %q, want world", got)
	}
}
