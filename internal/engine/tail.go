package engine

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// tailTracker remembers the previous window of one list stream. The backend
// resends its whole sliding window every tick, so only the entries past the
// overlap with the previous window are new.
type tailTracker struct {
	prev []jsoniter.RawMessage
}

// fresh returns the entries of window not already seen in the previous
// window and remembers window for the next call. A nil window (stream absent
// or malformed this tick) leaves the tracker untouched.
func (t *tailTracker) fresh(window []jsoniter.RawMessage) []jsoniter.RawMessage {
	if window == nil {
		return nil
	}
	k := overlap(t.prev, window)
	t.prev = window
	return window[k:]
}

// overlap returns the length of the longest suffix of prev that is also a
// prefix of next.
func overlap(prev, next []jsoniter.RawMessage) int {
	k := len(prev)
	if len(next) < k {
		k = len(next)
	}
	for ; k > 0; k-- {
		if equalEntries(prev[len(prev)-k:], next[:k]) {
			return k
		}
	}
	return 0
}

func equalEntries(a, b []jsoniter.RawMessage) bool {
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// listMirror tracks a list the backend edits in place. It has no history:
// whatever the backend sends replaces what was shown.
type listMirror struct {
	prev []jsoniter.RawMessage
}

// changed returns window when it differs from the previous one and nil when
// it is identical or absent. A cleared list comes back as an empty, non-nil
// slice.
func (m *listMirror) changed(window []jsoniter.RawMessage) []jsoniter.RawMessage {
	if window == nil {
		return nil
	}
	if m.prev != nil && len(m.prev) == len(window) && equalEntries(m.prev, window) {
		return nil
	}
	m.prev = window
	if len(window) == 0 {
		return []jsoniter.RawMessage{}
	}
	return window
}

// trimmer reduces a snapshot to what changed since the previous one: the
// unseen tails of the append-only api_log and logs streams, and the schedule
// only when it was edited.
type trimmer struct {
	apiLog   tailTracker
	schedule listMirror
	logs     tailTracker
}

// trim returns a copy of snap. A nil Schedule in the result means the
// schedule is unchanged; otherwise it is the complete new list.
func (t *trimmer) trim(snap *Snapshot) *Snapshot {
	out := *snap
	out.APILog = t.apiLog.fresh(snap.APILog)
	out.Schedule = t.schedule.changed(snap.Schedule)
	out.Logs = t.logs.fresh(snap.Logs)
	return &out
}
