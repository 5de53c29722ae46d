package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tonhe/iotmon/internal/config"
	"github.com/tonhe/iotmon/internal/dashboard"
	"github.com/tonhe/iotmon/internal/logging"
)

// DefaultDashboardName names the ad hoc dashboard built from the config
// endpoint when no saved dashboard is selected.
const DefaultDashboardName = "default"

// Target is the dashboard selection shared by the TUI and the subcommands.
type Target struct {
	Dashboard string
	Endpoint  string
	Interval  time.Duration
}

// LoadConfig reads the config file, then the optional .env file and the
// IOTMON_* environment overrides.
func LoadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path, err := config.GetConfigPath(); err == nil {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	envPath, _ := config.GetEnvPath()
	if err := cfg.ApplyEnv(envPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveDashboard picks the dashboard to poll. An explicit name loads a
// saved definition; otherwise the config's default dashboard is used unless
// an endpoint override is given, and finally an ad hoc dashboard is built
// from the config endpoint. Endpoint and interval overrides always apply.
func ResolveDashboard(cfg *config.Config, t Target) (*dashboard.Dashboard, error) {
	name := t.Dashboard
	if name == "" && t.Endpoint == "" {
		name = cfg.DefaultDashboard
	}

	var dash *dashboard.Dashboard
	if name != "" {
		dir, err := config.GetDashboardsDir()
		if err != nil {
			return nil, err
		}
		dash, err = dashboard.LoadDashboard(filepath.Join(dir, name+".toml"))
		if err != nil {
			return nil, fmt.Errorf("dashboard %q: %w", name, err)
		}
	} else {
		dash = cfg.Dashboard(DefaultDashboardName)
	}

	if t.Endpoint != "" {
		dash.Endpoint = t.Endpoint
	}
	if t.Interval > 0 {
		// A timeout that only followed the old interval follows the new one.
		if dash.Timeout == dash.Interval {
			dash.Timeout = 0
		}
		dash.Interval = t.Interval
	}
	dash.ApplyDefaults()
	return dash, nil
}

// NewStderrLogger builds the headless logger from the config.
func NewStderrLogger(cfg *config.Config) *logrus.Logger {
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log, _ = logging.New("info", cfg.LogFormat, os.Stderr)
		log.WithError(err).Warn("invalid log level, using info")
	}
	return log
}
