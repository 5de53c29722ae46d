package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tonhe/iotmon/internal/config"
	"github.com/tonhe/iotmon/internal/dashboard"
	"github.com/tonhe/iotmon/internal/engine"
)

func TestIsSubcommand(t *testing.T) {
	for _, name := range []string{"fetch", "watch", "dashboards", "config", "themes", "version", "help"} {
		if !IsSubcommand(name) {
			t.Errorf("%q should be a subcommand", name)
		}
	}
	if IsSubcommand("--dashboard") || IsSubcommand("identity") {
		t.Error("unexpected subcommand")
	}
}

func TestApplyConfigSetting(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applyConfigSetting(cfg, "theme", "nord"); err != nil || cfg.Theme != "nord" {
		t.Errorf("theme: err=%v theme=%q", err, cfg.Theme)
	}
	if err := applyConfigSetting(cfg, "theme", "no-such-theme"); err == nil {
		t.Error("unknown theme accepted")
	}
	if err := applyConfigSetting(cfg, "interval", "5s"); err != nil || cfg.PollInterval != 5*time.Second {
		t.Errorf("interval: err=%v interval=%v", err, cfg.PollInterval)
	}
	if err := applyConfigSetting(cfg, "interval", "-1s"); err == nil {
		t.Error("negative interval accepted")
	}
	if err := applyConfigSetting(cfg, "endpoint", "http://pi:3000/api/state"); err != nil || cfg.Endpoint != "http://pi:3000/api/state" {
		t.Errorf("endpoint: err=%v endpoint=%q", err, cfg.Endpoint)
	}
	if err := applyConfigSetting(cfg, "bogus", "x"); err == nil {
		t.Error("unknown key accepted")
	}
}

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	return home
}

func TestResolveDashboardAdHoc(t *testing.T) {
	setHome(t)
	cfg := config.DefaultConfig()
	cfg.Endpoint = "http://config:3000/api/state"

	d, err := ResolveDashboard(cfg, Target{Interval: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != DefaultDashboardName || d.Endpoint != cfg.Endpoint {
		t.Errorf("dashboard = %+v", d)
	}
	if d.Interval != 5*time.Second || d.Timeout != 5*time.Second {
		t.Errorf("interval=%v timeout=%v", d.Interval, d.Timeout)
	}

	d, err = ResolveDashboard(cfg, Target{Endpoint: "http://flag/api/state"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Endpoint != "http://flag/api/state" {
		t.Errorf("endpoint override ignored: %q", d.Endpoint)
	}
}

func TestResolveDashboardSaved(t *testing.T) {
	setHome(t)
	if err := config.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	dir, err := config.GetDashboardsDir()
	if err != nil {
		t.Fatal(err)
	}
	saved := dashboard.New("garage", "http://garage/api/state", 3*time.Second)
	if err := dashboard.SaveDashboard(saved, filepath.Join(dir, "garage.toml")); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.DefaultDashboard = "garage"

	d, err := ResolveDashboard(cfg, Target{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Endpoint != "http://garage/api/state" || d.Interval != 3*time.Second {
		t.Errorf("default dashboard not loaded: %+v", d)
	}

	// An endpoint override skips the default dashboard.
	d, err = ResolveDashboard(cfg, Target{Endpoint: "http://other/api/state"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != DefaultDashboardName {
		t.Errorf("name = %q", d.Name)
	}

	if _, err := ResolveDashboard(cfg, Target{Dashboard: "missing"}); err == nil {
		t.Error("missing dashboard resolved")
	}
}

func TestPrintState(t *testing.T) {
	initial := 10.0
	st := &engine.State{
		Name:     "home",
		Endpoint: "http://pi/api/state",
		DistanceHistory: []engine.DistanceReading{
			{Current: 12.5, Initial: &initial},
		},
		EndpointStats: engine.ComputeStats([]engine.APICallRecord{
			{Endpoint: "/api/distance", Status: 200},
			{Endpoint: "/api/distance", Status: 500},
		}),
		LogView: []engine.LogDisplayEntry{
			engine.LogLine{Kind: engine.Structured, Endpoint: "/api/schedule", Status: 200}.Display(),
		},
		LastSuccess: time.Now(),
	}

	var buf bytes.Buffer
	printState(&buf, st, time.Now())
	out := buf.String()
	for _, want := range []string{"home  http://pi/api/state  (live)", "12.50 px  changing", "+2.50 px", "distance", "50%", "[schedule]", "Schedule:\n  (none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
