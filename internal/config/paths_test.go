package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error: %v", err)
	}
	if filepath.Base(dir) != "iotmon" {
		t.Errorf("expected dir to end with 'iotmon', got %q", filepath.Base(dir))
	}
}

func TestGetConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error: %v", err)
	}
	if expected := filepath.Join(tmp, "iotmon"); dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestGetLogPathXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	path, err := GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath() error: %v", err)
	}
	if expected := filepath.Join(tmp, "iotmon", "iotmon.log"); path != expected {
		t.Errorf("expected %q, got %q", expected, path)
	}
}

func TestConfigFilePaths(t *testing.T) {
	tests := []struct {
		fn   func() (string, error)
		base string
	}{
		{GetDashboardsDir, "dashboards"},
		{GetConfigPath, "config.toml"},
		{GetEnvPath, ".env"},
	}
	for _, tt := range tests {
		p, err := tt.fn()
		if err != nil {
			t.Fatalf("path error: %v", err)
		}
		if filepath.Base(p) != tt.base {
			t.Errorf("expected %q, got %q", tt.base, filepath.Base(p))
		}
	}
}

func TestEnsureDirs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))

	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error: %v", err)
	}
	for _, dir := range []string{
		filepath.Join(tmp, "cfg", "iotmon", "dashboards"),
		filepath.Join(tmp, "data", "iotmon"),
	} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}
