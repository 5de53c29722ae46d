package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/internal/httpapi"
)

// Runtime bundles the session manager with its metrics registry and logger.
// The TUI and the headless watcher both run on one.
type Runtime struct {
	Manager  *engine.Manager
	Registry *prometheus.Registry
	Log      logrus.FieldLogger
}

// NewRuntime creates a manager whose sessions log to log and record metrics
// on a fresh registry.
func NewRuntime(log logrus.FieldLogger) (*Runtime, error) {
	engine.UserAgent = "iotmon/" + Version

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := engine.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return &Runtime{
		Manager:  engine.NewManager(engine.WithLogger(log), engine.WithMetrics(metrics)),
		Registry: reg,
		Log:      log,
	}, nil
}

// Serve runs the read-only HTTP view on addr until ctx is cancelled. An
// empty addr serves nothing.
func (r *Runtime) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	if err := httpapi.New(r.Manager, r.Registry, r.Log).Run(ctx, addr); err != nil {
		return fmt.Errorf("http view: %w", err)
	}
	return nil
}
