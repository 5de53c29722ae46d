package dashboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testDashboardTOML = `
name = "Raspberry Pi"
endpoint = "http://192.168.1.101:3000/api/state"
interval = "5s"
timeout = "3s"

[history]
distance = 40
logs = 50
`

func TestLoadDashboard(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "pi.toml")
	os.WriteFile(path, []byte(testDashboardTOML), 0644)

	dash, err := LoadDashboard(path)
	if err != nil {
		t.Fatalf("LoadDashboard() error: %v", err)
	}
	if dash.Name != "Raspberry Pi" {
		t.Errorf("expected name 'Raspberry Pi', got %q", dash.Name)
	}
	if dash.Interval != 5*time.Second {
		t.Errorf("expected interval 5s, got %v", dash.Interval)
	}
	if dash.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", dash.Timeout)
	}
	if dash.History.Distance != 40 || dash.History.Logs != 50 {
		t.Errorf("expected explicit history limits, got %+v", dash.History)
	}
	if dash.History.APILog != DefaultAPILogHistory || dash.History.Schedule != DefaultScheduleHistory {
		t.Errorf("expected default api_log/schedule limits, got %+v", dash.History)
	}
}

func TestLoadDashboardDefaults(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "bare.toml")
	os.WriteFile(path, []byte(""), 0644)

	dash, err := LoadDashboard(path)
	if err != nil {
		t.Fatalf("LoadDashboard() error: %v", err)
	}
	if dash.Name != "bare" {
		t.Errorf("expected name from file, got %q", dash.Name)
	}
	if dash.Endpoint != DefaultEndpoint {
		t.Errorf("expected default endpoint, got %q", dash.Endpoint)
	}
	if dash.Interval != DefaultInterval || dash.Timeout != DefaultInterval {
		t.Errorf("expected 2s interval and timeout, got %v / %v", dash.Interval, dash.Timeout)
	}
	want := History{Distance: 20, APILog: 10, Schedule: 5, Logs: 20}
	if dash.History != want {
		t.Errorf("expected %+v, got %+v", want, dash.History)
	}
}

func TestLoadDashboardBadInterval(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "bad.toml")
	os.WriteFile(path, []byte(`interval = "soon"`), 0644)

	if _, err := LoadDashboard(path); err == nil {
		t.Error("expected an error for an unparsable interval")
	}
}

func TestTimeoutClampedToInterval(t *testing.T) {
	d := &Dashboard{Interval: time.Second, Timeout: 10 * time.Second}
	d.ApplyDefaults()
	if d.Timeout != time.Second {
		t.Errorf("expected timeout clamped to 1s, got %v", d.Timeout)
	}
}

func TestSaveDashboard(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "out.toml")

	dash := New("Saved Dashboard", "http://10.0.0.5:3000/api/state", 4*time.Second)
	if err := SaveDashboard(dash, path); err != nil {
		t.Fatalf("SaveDashboard() error: %v", err)
	}

	loaded, err := LoadDashboard(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if loaded.Name != "Saved Dashboard" {
		t.Errorf("expected 'Saved Dashboard', got %q", loaded.Name)
	}
	if loaded.Interval != 4*time.Second {
		t.Errorf("expected 4s, got %v", loaded.Interval)
	}
	if loaded.Endpoint != dash.Endpoint {
		t.Errorf("expected endpoint %q, got %q", dash.Endpoint, loaded.Endpoint)
	}
}

func TestListDashboards(t *testing.T) {
	tmp := t.TempDir()
	os.WriteFile(filepath.Join(tmp, "b.toml"), []byte(testDashboardTOML), 0644)
	os.WriteFile(filepath.Join(tmp, "a.toml"), []byte(testDashboardTOML), 0644)
	os.WriteFile(filepath.Join(tmp, "not-toml.txt"), []byte("ignore"), 0644)

	names, err := ListDashboards(tmp)
	if err != nil {
		t.Fatalf("ListDashboards() error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 dashboards, got %d", len(names))
	}
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("expected sorted names, got %v", names)
	}
}
