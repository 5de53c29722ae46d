package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/tonhe/iotmon/internal/config"
	"github.com/tonhe/iotmon/tui/styles"
)

const configUsage = "Usage: iotmon config <path|theme|endpoint|interval|dashboard>"

func configCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, configUsage)
		os.Exit(1)
	}

	if args[0] == "path" {
		configPath()
		return
	}
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: iotmon config %s VALUE\n", args[0])
		os.Exit(1)
	}

	cfg := loadOrDefaultConfig()
	if err := applyConfigSetting(cfg, args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, configUsage)
		os.Exit(1)
	}
	saveConfig(cfg)
	fmt.Printf("Default %s set to %q.\n", args[0], args[1])
}

// applyConfigSetting validates value and stores it under key.
func applyConfigSetting(cfg *config.Config, key, value string) error {
	switch key {
	case "theme":
		if _, ok := styles.Lookup(value); !ok {
			return fmt.Errorf("unknown theme %q (run 'iotmon themes')", value)
		}
		cfg.Theme = value
	case "endpoint":
		cfg.Endpoint = value
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("interval: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("interval must be positive")
		}
		cfg.PollInterval = d
	case "dashboard":
		cfg.DefaultDashboard = value
	default:
		return fmt.Errorf("unknown config command: %s", key)
	}
	return nil
}

func configPath() {
	dir, err := config.GetConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(dir)
}

func themesCmd() {
	for _, name := range styles.Slugs() {
		fmt.Println(name)
	}
}

// loadOrDefaultConfig loads the config file without environment overrides,
// so that saving it back does not persist them.
func loadOrDefaultConfig() *config.Config {
	path, err := config.GetConfigPath()
	if err != nil {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// saveConfig writes the config to disk, creating directories as needed.
func saveConfig(cfg *config.Config) {
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directories: %v\n", err)
		os.Exit(1)
	}

	path, err := config.GetConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
}
