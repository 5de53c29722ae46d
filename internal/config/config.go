package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/tonhe/iotmon/internal/dashboard"
)

// Environment variables that override the config file.
const (
	EnvEndpoint = "IOTMON_ENDPOINT"
	EnvInterval = "IOTMON_INTERVAL"
	EnvLogLevel = "IOTMON_LOG_LEVEL"
	EnvListen   = "IOTMON_LISTEN"
)

type Config struct {
	Theme            string        `toml:"theme"`
	Endpoint         string        `toml:"endpoint"`
	DefaultDashboard string        `toml:"default_dashboard"`
	PollInterval     time.Duration `toml:"-"`
	PollIntervalStr  string        `toml:"poll_interval"`
	Timeout          time.Duration `toml:"-"`
	TimeoutStr       string        `toml:"timeout,omitempty"`
	LogLevel         string        `toml:"log_level"`
	LogFormat        string        `toml:"log_format"`
	Listen           string        `toml:"listen"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:           "solarized-dark",
		Endpoint:        dashboard.DefaultEndpoint,
		PollInterval:    dashboard.DefaultInterval,
		PollIntervalStr: dashboard.DefaultInterval.String(),
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.PollIntervalStr != "" {
		d, err := time.ParseDuration(cfg.PollIntervalStr)
		if err == nil {
			cfg.PollInterval = d
		}
	}
	if cfg.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.TimeoutStr)
		if err == nil {
			cfg.Timeout = d
		}
	}
	return cfg, nil
}

func SaveConfig(cfg *Config, path string) error {
	cfg.PollIntervalStr = cfg.PollInterval.String()
	cfg.TimeoutStr = ""
	if cfg.Timeout > 0 {
		cfg.TimeoutStr = cfg.Timeout.String()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// ApplyEnv loads envFile into the process environment when it exists, then
// applies the IOTMON_* overrides. Variables already set in the environment
// win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvInterval, err)
		}
		c.PollInterval = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	return nil
}

// Dashboard returns an ad hoc dashboard for the configured endpoint.
func (c *Config) Dashboard(name string) *dashboard.Dashboard {
	d := &dashboard.Dashboard{
		Name:     name,
		Endpoint: c.Endpoint,
		Interval: c.PollInterval,
		Timeout:  c.Timeout,
	}
	d.ApplyDefaults()
	return d
}
