package engine

import (
	"math"
	"time"
)

// Stream names one of the four independent data streams in a snapshot.
type Stream string

const (
	StreamDistance Stream = "distance"
	StreamAPILog   Stream = "api_log"
	StreamSchedule Stream = "schedule"
	StreamLogs     Stream = "logs"
)

// StableThreshold is the largest drift from the initial distance that still
// counts as a stable reading.
const StableThreshold = 0.5

// DistanceReading is one sensor reading as reported by the backend.
type DistanceReading struct {
	Current    float64   `json:"current_distance"`
	Initial    *float64  `json:"initial_distance,omitempty"`
	Difference *float64  `json:"distance_difference,omitempty"`
	Elapsed    *float64  `json:"elapsed_time,omitempty"`
	Source     string    `json:"source,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// DistanceStatus is "stable" or "changing".
type DistanceStatus string

const (
	DistanceStable   DistanceStatus = "stable"
	DistanceChanging DistanceStatus = "changing"
)

// Drift returns the distance from the initial reading, preferring the
// backend-computed difference when present.
func (d DistanceReading) Drift() (float64, bool) {
	if d.Difference != nil {
		return *d.Difference, true
	}
	if d.Initial != nil {
		return d.Current - *d.Initial, true
	}
	return 0, false
}

// Status classifies the reading. Without a baseline it is stable.
func (d DistanceReading) Status() DistanceStatus {
	if drift, ok := d.Drift(); ok && math.Abs(drift) > StableThreshold {
		return DistanceChanging
	}
	return DistanceStable
}

// APICallRecord is one backend API call as logged by the backend.
type APICallRecord struct {
	Endpoint  string    `json:"endpoint"`
	Status    int       `json:"status"`
	Method    string    `json:"method,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Success reports whether the call returned a 2xx status.
func (r APICallRecord) Success() bool {
	return r.Status >= 200 && r.Status < 300
}

// EndpointStats summarizes the calls to one endpoint.
type EndpointStats struct {
	Endpoint           string `json:"endpoint"`
	Total              int    `json:"total"`
	SuccessCount       int    `json:"success"`
	ErrorCount         int    `json:"error"`
	SuccessRatePercent int    `json:"rate"`
}

// EntryKind tags the two shapes a schedule or log entry can take.
type EntryKind int

const (
	PlainText EntryKind = iota
	Structured
)

func (k EntryKind) String() string {
	if k == Structured {
		return "structured"
	}
	return "plain"
}

// SessionState represents the lifecycle state of a session.
type SessionState int

const (
	SessionStopped SessionState = iota
	SessionRunning
)

func (s SessionState) String() string {
	if s == SessionRunning {
		return "running"
	}
	return "stopped"
}

// SessionInfo provides summary information about a session.
type SessionInfo struct {
	Name       string       `json:"name"`
	ID         string       `json:"id"`
	Endpoint   string       `json:"endpoint"`
	State      SessionState `json:"state"`
	LastPoll   time.Time    `json:"last_poll"`
	PollCount  int          `json:"poll_count"`
	ErrorCount int          `json:"error_count"`
	Stale      bool         `json:"stale"`
}

// Event is emitted to subscribers after each reconciliation pass.
type Event struct {
	DashboardName string
	State         *State
}
