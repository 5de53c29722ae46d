package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "iotmon"

// baseDir resolves a per-user base directory: on Windows from winEnv (or
// USERPROFILE/winRel), elsewhere from xdgEnv (or $HOME/unixRel).
func baseDir(winEnv string, winRel []string, xdgEnv string, unixRel []string) (string, error) {
	if runtime.GOOS == "windows" {
		if base := os.Getenv(winEnv); base != "" {
			return base, nil
		}
		return filepath.Join(append([]string{os.Getenv("USERPROFILE")}, winRel...)...), nil
	}
	if base := os.Getenv(xdgEnv); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, unixRel...)...), nil
}

// GetConfigDir returns the platform-specific config directory.
// Unix: $XDG_CONFIG_HOME/iotmon or ~/.config/iotmon
// Windows: %APPDATA%\iotmon
func GetConfigDir() (string, error) {
	base, err := baseDir("APPDATA", []string{"AppData", "Roaming"}, "XDG_CONFIG_HOME", []string{".config"})
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// GetDataDir returns the platform-specific data directory.
// Unix: $XDG_DATA_HOME/iotmon or ~/.local/share/iotmon
// Windows: %LOCALAPPDATA%\iotmon
func GetDataDir() (string, error) {
	base, err := baseDir("LOCALAPPDATA", []string{"AppData", "Local"}, "XDG_DATA_HOME", []string{".local", "share"})
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

func inConfigDir(name string) (string, error) {
	cfgDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, name), nil
}

// GetDashboardsDir returns the directory for dashboard config files.
func GetDashboardsDir() (string, error) {
	return inConfigDir("dashboards")
}

// GetConfigPath returns the path of the main config file.
func GetConfigPath() (string, error) {
	return inConfigDir("config.toml")
}

// GetEnvPath returns the optional .env file next to the config file.
func GetEnvPath() (string, error) {
	return inConfigDir(".env")
}

// GetLogPath returns the log file used while the TUI owns the terminal.
func GetLogPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, appName+".log"), nil
}

// EnsureDirs creates all required directories if they don't exist.
func EnsureDirs() error {
	for _, fn := range []func() (string, error){GetConfigDir, GetDataDir, GetDashboardsDir} {
		dir, err := fn()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
