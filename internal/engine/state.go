package engine

import "time"

// Status values reported by State.Status.
const (
	StatusWaiting = "waiting"
	StatusLive    = "live"
	StatusStale   = "stale"
)

// State is the render sink's view of one session. A published State is never
// modified; its slices and maps are shared with later States that did not
// change them, so readers must treat them as read-only.
type State struct {
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
	Endpoint  string `json:"endpoint"`
	Seq       uint64 `json:"seq"`

	// DistanceHistory is oldest-first.
	DistanceHistory []DistanceReading        `json:"distance_history"`
	EndpointStats   map[string]EndpointStats `json:"endpoint_stats"`
	// RecentCalls, ScheduleView and LogView are newest-first.
	RecentCalls  []APICallRecord        `json:"recent_calls"`
	ScheduleView []ScheduleDisplayEntry `json:"schedule"`
	LogView      []LogDisplayEntry      `json:"logs"`

	LastPoll       time.Time `json:"last_poll"`
	LastSuccess    time.Time `json:"last_success"`
	LastError      error     `json:"-"`
	ErrorText      string    `json:"last_error,omitempty"`
	Stale          bool      `json:"stale"`
	PollCount      int       `json:"poll_count"`
	ErrorCount     int       `json:"error_count"`
	DroppedEntries int       `json:"dropped_entries"`
}

// Latest returns the newest distance reading.
func (s *State) Latest() (DistanceReading, bool) {
	if s == nil || len(s.DistanceHistory) == 0 {
		return DistanceReading{}, false
	}
	return s.DistanceHistory[len(s.DistanceHistory)-1], true
}

// Status summarizes freshness: "waiting" before the first successful pass,
// "stale" after a failed one, "live" otherwise.
func (s *State) Status() string {
	switch {
	case s == nil:
		return StatusWaiting
	case s.Stale:
		return StatusStale
	case s.LastSuccess.IsZero():
		return StatusWaiting
	}
	return StatusLive
}
