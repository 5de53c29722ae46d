package cmd

import (
	"fmt"
	"os"
)

// Version is reported by "iotmon version" and sent in the User-Agent.
const Version = "0.1.0"

// knownSubcommands is the set of CLI subcommands that bypass the TUI.
var knownSubcommands = map[string]bool{
	"fetch":      true,
	"watch":      true,
	"dashboards": true,
	"config":     true,
	"themes":     true,
	"version":    true,
	"help":       true,
}

// IsSubcommand returns true if the argument is a known CLI subcommand.
func IsSubcommand(arg string) bool {
	return knownSubcommands[arg]
}

// Execute dispatches to the appropriate CLI subcommand handler.
func Execute(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "fetch":
		fetchCmd(args[1:])
	case "watch":
		watchCmd(args[1:])
	case "dashboards":
		dashboardsCmd()
	case "config":
		configCmd(args[1:])
	case "themes":
		themesCmd()
	case "version":
		fmt.Println("iotmon v" + Version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`iotmon - IoT status dashboard

Usage:
  iotmon                        Launch TUI monitor
  iotmon --dashboard NAME       Launch with a saved dashboard
  iotmon --endpoint URL         Launch against a status endpoint
  iotmon --interval D           Override the poll interval
  iotmon --theme NAME           Launch with theme override
  iotmon --listen ADDR          Also serve the HTTP view on ADDR
  iotmon fetch [flags]          Poll once and print the views
  iotmon watch [flags]          Poll headless with structured logs
  iotmon dashboards             List saved dashboards
  iotmon config <cmd>           Manage configuration
  iotmon themes                 List available themes
  iotmon version                Show version
  iotmon help                   Show this help

Fetch / Watch Flags:
  --dashboard NAME              Saved dashboard to poll
  --endpoint URL                Status endpoint (default from config)
  --interval D                  Poll interval (watch only)
  --json                        Print the state as JSON (fetch only)
  --listen ADDR                 Serve /api and /metrics on ADDR (watch only)

Config Commands:
  iotmon config path            Show config directory path
  iotmon config theme NAME      Set default theme
  iotmon config endpoint URL    Set default status endpoint
  iotmon config interval D      Set default poll interval
  iotmon config dashboard NAME  Set default dashboard

Environment:
  IOTMON_ENDPOINT, IOTMON_INTERVAL, IOTMON_LOG_LEVEL, IOTMON_LISTEN
  are read from the environment or from .env in the config directory.`)
}
