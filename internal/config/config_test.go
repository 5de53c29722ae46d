package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Theme != "solarized-dark" {
		t.Errorf("expected default theme 'solarized-dark', got %q", cfg.Theme)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("expected poll interval 2s, got %v", cfg.PollInterval)
	}
	if cfg.Endpoint != "http://localhost:3000/api/state" {
		t.Errorf("unexpected default endpoint %q", cfg.Endpoint)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected log defaults %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestConfigSaveLoad(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	cfg := DefaultConfig()
	cfg.Theme = "dracula"
	cfg.Endpoint = "http://192.168.0.20:3000/api/state"
	cfg.PollInterval = 5 * time.Second
	cfg.Timeout = 3 * time.Second

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.Theme != "dracula" {
		t.Errorf("expected theme 'dracula', got %q", loaded.Theme)
	}
	if loaded.Endpoint != cfg.Endpoint {
		t.Errorf("expected endpoint %q, got %q", cfg.Endpoint, loaded.Endpoint)
	}
	if loaded.PollInterval != 5*time.Second || loaded.Timeout != 3*time.Second {
		t.Errorf("expected 5s/3s, got %v/%v", loaded.PollInterval, loaded.Timeout)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadConfig() should return defaults for missing file, got error: %v", err)
	}
	if cfg.Theme != "solarized-dark" {
		t.Errorf("expected default theme, got %q", cfg.Theme)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://10.1.1.1:3000/api/state")
	t.Setenv(EnvInterval, "750ms")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvListen, ":9000")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(""); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Endpoint != "http://10.1.1.1:3000/api/state" {
		t.Errorf("endpoint not overridden: %q", cfg.Endpoint)
	}
	if cfg.PollInterval != 750*time.Millisecond {
		t.Errorf("interval not overridden: %v", cfg.PollInterval)
	}
	if cfg.LogLevel != "debug" || cfg.Listen != ":9000" {
		t.Errorf("unexpected overrides %q %q", cfg.LogLevel, cfg.Listen)
	}
}

func TestApplyEnvFile(t *testing.T) {
	tmp := t.TempDir()
	envFile := filepath.Join(tmp, ".env")
	os.WriteFile(envFile, []byte("IOTMON_LISTEN=:8181\n"), 0600)

	// Registers cleanup so the value loaded from the file does not leak.
	t.Setenv(EnvListen, "")
	os.Unsetenv(EnvListen)

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(envFile); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Listen != ":8181" {
		t.Errorf("expected listen from .env, got %q", cfg.Listen)
	}
}

func TestApplyEnvMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestApplyEnvBadInterval(t *testing.T) {
	t.Setenv(EnvInterval, "often")
	if err := DefaultConfig().ApplyEnv(""); err == nil {
		t.Error("expected an error for an unparsable interval")
	}
}

func TestConfigDashboard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollInterval = 3 * time.Second
	d := cfg.Dashboard("live")
	if d.Name != "live" || d.Endpoint != cfg.Endpoint {
		t.Errorf("unexpected dashboard %+v", d)
	}
	if d.Timeout != 3*time.Second {
		t.Errorf("expected timeout to default to the interval, got %v", d.Timeout)
	}
	if d.History.Logs != 20 {
		t.Errorf("expected default log history, got %d", d.History.Logs)
	}
}
