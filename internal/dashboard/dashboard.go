package dashboard

import "time"

// Defaults applied to fields a dashboard file leaves out.
const (
	DefaultEndpoint = "http://localhost:3000/api/state"
	DefaultInterval = 2 * time.Second

	DefaultDistanceHistory = 20
	DefaultAPILogHistory   = 10
	DefaultScheduleHistory = 5
	DefaultLogHistory      = 20
)

// Dashboard represents a complete dashboard configuration loaded from TOML:
// one backend status endpoint polled at a fixed interval.
type Dashboard struct {
	Name        string        `toml:"name"`
	Endpoint    string        `toml:"endpoint"`
	IntervalStr string        `toml:"interval"`
	Interval    time.Duration `toml:"-"`
	TimeoutStr  string        `toml:"timeout,omitempty"`
	Timeout     time.Duration `toml:"-"`
	History     History       `toml:"history"`
}

// History holds the capacity of each bounded history buffer.
type History struct {
	Distance int `toml:"distance"`
	APILog   int `toml:"api_log"`
	Schedule int `toml:"schedule"`
	Logs     int `toml:"logs"`
}

// ApplyDefaults fills zero-valued fields. The fetch timeout defaults to the
// interval so a slow backend can never make ticks overlap.
func (d *Dashboard) ApplyDefaults() {
	if d.Name == "" {
		d.Name = "default"
	}
	if d.Endpoint == "" {
		d.Endpoint = DefaultEndpoint
	}
	if d.Interval <= 0 {
		d.Interval = DefaultInterval
	}
	if d.Timeout <= 0 || d.Timeout > d.Interval {
		d.Timeout = d.Interval
	}
	if d.History.Distance <= 0 {
		d.History.Distance = DefaultDistanceHistory
	}
	if d.History.APILog <= 0 {
		d.History.APILog = DefaultAPILogHistory
	}
	if d.History.Schedule <= 0 {
		d.History.Schedule = DefaultScheduleHistory
	}
	if d.History.Logs <= 0 {
		d.History.Logs = DefaultLogHistory
	}
}

// New returns a dashboard for endpoint with defaults applied.
func New(name, endpoint string, interval time.Duration) *Dashboard {
	d := &Dashboard{Name: name, Endpoint: endpoint, Interval: interval}
	d.ApplyDefaults()
	return d
}
