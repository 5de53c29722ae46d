package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tonhe/iotmon/internal/dashboard"
	"github.com/tonhe/iotmon/internal/engine"
)

func watchCmd(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	dashName := fs.String("dashboard", "", "Saved dashboard to poll")
	endpoint := fs.String("endpoint", "", "Status endpoint URL")
	interval := fs.Duration("interval", 0, "Poll interval")
	listen := fs.String("listen", "", "Serve the HTTP view on ADDR")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: iotmon watch [--dashboard NAME] [--endpoint URL] [--interval D] [--listen ADDR]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dash, err := ResolveDashboard(cfg, Target{Dashboard: *dashName, Endpoint: *endpoint, Interval: *interval})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	addr := *listen
	if addr == "" {
		addr = cfg.Listen
	}

	log := NewStderrLogger(cfg)
	if err := Watch(dash, addr, log); err != nil {
		log.WithError(err).Error("watch failed")
		os.Exit(1)
	}
}

// Watch polls dash without a terminal UI until SIGINT or SIGTERM, logging
// each pass. A non-empty addr also serves the HTTP view.
func Watch(dash *dashboard.Dashboard, addr string, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := NewRuntime(log)
	if err != nil {
		return err
	}
	if err := rt.Manager.Start(dash); err != nil {
		return err
	}
	defer rt.Manager.StopAll()

	events, err := rt.Manager.Subscribe(dash.Name)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- rt.Serve(ctx, addr) }()

	log.WithFields(logrus.Fields{
		"dashboard": dash.Name,
		"endpoint":  dash.Endpoint,
		"interval":  dash.Interval,
	}).Info("watching")

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			if errCh == nil {
				return nil
			}
			return <-errCh
		case err := <-errCh:
			if err != nil {
				return err
			}
			errCh = nil
		case ev := <-events:
			logEvent(log, ev.State)
		}
	}
}

func logEvent(log logrus.FieldLogger, st *engine.State) {
	if st.Stale {
		return
	}
	fields := logrus.Fields{
		"dashboard": st.Name,
		"seq":       st.Seq,
		"calls":     len(st.RecentCalls),
		"schedule":  len(st.ScheduleView),
		"logs":      len(st.LogView),
	}
	if r, ok := st.Latest(); ok {
		fields["distance"] = r.Current
		fields["distance_status"] = r.Status()
	}
	log.WithFields(fields).Info("poll")
}
