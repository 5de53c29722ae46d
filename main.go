package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/tonhe/iotmon/cmd"
	"github.com/tonhe/iotmon/internal/config"
	"github.com/tonhe/iotmon/internal/dashboard"
	"github.com/tonhe/iotmon/internal/logging"
	"github.com/tonhe/iotmon/tui"
	"github.com/tonhe/iotmon/tui/styles"
)

func main() {
	if len(os.Args) > 1 && cmd.IsSubcommand(os.Args[1]) {
		cmd.Execute(os.Args[1:])
		return
	}

	fs := flag.NewFlagSet("iotmon", flag.ExitOnError)
	dashName := fs.String("dashboard", "", "Saved dashboard to open")
	endpoint := fs.String("endpoint", "", "Status endpoint URL")
	interval := fs.Duration("interval", 0, "Poll interval")
	theme := fs.String("theme", "", "Theme override")
	listen := fs.String("listen", "", "Serve the HTTP view on ADDR")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *theme != "" {
		if _, ok := styles.Lookup(*theme); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", *theme)
			os.Exit(1)
		}
		cfg.Theme = *theme
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	dash, err := cmd.ResolveDashboard(cfg, cmd.Target{Dashboard: *dashName, Endpoint: *endpoint, Interval: *interval})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log := cmd.NewStderrLogger(cfg)
		log.Info("stdout is not a terminal, running headless")
		if err := cmd.Watch(dash, cfg.Listen, log); err != nil {
			log.WithError(err).Error("watch failed")
			os.Exit(1)
		}
		return
	}

	if err := runTUI(cfg, dash); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI runs the terminal UI with logs redirected to the log file, since
// the TUI owns the terminal.
func runTUI(cfg *config.Config, dash *dashboard.Dashboard) error {
	log := logrus.New()
	log.SetOutput(io.Discard)
	if err := config.EnsureDirs(); err == nil {
		if path, err := config.GetLogPath(); err == nil {
			if f, err := logging.OpenFile(path); err == nil {
				defer f.Close()
				if l, err := logging.New(cfg.LogLevel, cfg.LogFormat, f); err == nil {
					log = l
				}
			}
		}
	}

	rt, err := cmd.NewRuntime(log)
	if err != nil {
		return err
	}
	if err := rt.Manager.Start(dash); err != nil {
		return err
	}
	defer rt.Manager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	go func() {
		if err := rt.Serve(ctx, cfg.Listen); err != nil {
			log.WithError(err).Error("http view stopped")
		}
	}()

	dashDir, _ := config.GetDashboardsDir()
	cfgPath, _ := config.GetConfigPath()
	model := tui.NewAppModel(cfg, rt.Manager, tui.Options{
		Active:        dash.Name,
		DashboardsDir: dashDir,
		ConfigPath:    cfgPath,
		Version:       cmd.Version,
		Logger:        log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
