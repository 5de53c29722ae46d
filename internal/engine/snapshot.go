package engine

import (
	"bytes"
	stdjson "encoding/json"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot is one raw backend response split into its four streams. It is
// transient: a session keeps it only for the duration of one tick.
//
// A nil field means the backend did not send it (or sent null). Fields that
// were present but malformed are nil as well and have a *FieldError in Faults.
type Snapshot struct {
	Distance  jsoniter.RawMessage
	APILog    []jsoniter.RawMessage
	Schedule  []jsoniter.RawMessage
	Logs      []jsoniter.RawMessage
	Faults    []error
	FetchedAt time.Time
}

// DecodeSnapshot parses a /api/state body. Only a body that is not a JSON
// object fails as a whole; each field is split independently.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var top map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, decodeError(err)
	}
	if top == nil {
		return nil, decodeError(errNotObject)
	}

	snap := &Snapshot{}
	if raw, ok := top["distance"]; ok && !isNull(raw) {
		snap.Distance = raw
	}
	snap.APILog = snap.splitList(StreamAPILog, top["api_log"])
	snap.Schedule = snap.splitList(StreamSchedule, top["schedule"])
	snap.Logs = snap.splitList(StreamLogs, top["logs"])
	return snap, nil
}

// splitList breaks a JSON array into compacted raw elements. A missing or
// null field returns nil; a non-array is recorded as a fault.
func (s *Snapshot) splitList(stream Stream, raw jsoniter.RawMessage) []jsoniter.RawMessage {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var items []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		s.Faults = append(s.Faults, &FieldError{Stream: stream, Err: errNotList})
		return nil
	}
	for i, item := range items {
		items[i] = compact(item)
	}
	return items
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// compact strips insignificant whitespace so equal entries compare equal
// byte-for-byte across ticks.
func compact(raw []byte) []byte {
	var buf bytes.Buffer
	if err := stdjson.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
