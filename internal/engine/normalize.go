package engine

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// NormalizedUpdate holds the typed entries for one tick. A nil Distance or an
// empty slice means "no update" for that stream.
type NormalizedUpdate struct {
	Distance *DistanceReading
	APICalls []APICallRecord
	Schedule []ScheduleDisplayEntry
	Logs     []LogDisplayEntry

	// Issues lists isolated faults: a *FieldError per malformed field and an
	// *EntryError per dropped element.
	Issues []error
}

// Empty reports whether the update carries nothing to apply.
func (u NormalizedUpdate) Empty() bool {
	return u.Distance == nil && len(u.APICalls) == 0 && len(u.Schedule) == 0 && len(u.Logs) == 0
}

// Normalize turns a raw snapshot into typed per-stream updates. It never
// fails as a whole: every stream is handled independently and every bad
// element is dropped on its own.
func Normalize(snap *Snapshot) NormalizedUpdate {
	var u NormalizedUpdate
	if snap == nil {
		return u
	}
	u.Issues = append(u.Issues, snap.Faults...)

	if snap.Distance != nil {
		d, err := parseDistance(snap.Distance)
		if err != nil {
			u.Issues = append(u.Issues, &FieldError{Stream: StreamDistance, Err: err})
		} else {
			d.ReceivedAt = snap.FetchedAt
			u.Distance = &d
		}
	}

	u.APICalls = normalizeList(snap.APILog, StreamAPILog, &u.Issues, parseAPICall)
	u.Schedule = normalizeList(snap.Schedule, StreamSchedule, &u.Issues,
		func(raw []byte) (ScheduleDisplayEntry, error) {
			e, err := parseScheduleEntry(raw)
			if err != nil {
				return ScheduleDisplayEntry{}, err
			}
			return e.Display(), nil
		})
	u.Logs = normalizeList(snap.Logs, StreamLogs, &u.Issues,
		func(raw []byte) (LogDisplayEntry, error) {
			l, err := parseLogLine(raw)
			if err != nil {
				return LogDisplayEntry{}, err
			}
			return l.Display(), nil
		})
	return u
}

// normalizeList applies parse to each element, collecting failures as
// *EntryError. Entries keep their arrival order.
func normalizeList[T any](raw []jsoniter.RawMessage, stream Stream, issues *[]error, parse func([]byte) (T, error)) []T {
	if len(raw) == 0 {
		return nil
	}
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		v, err := parse(item)
		if err != nil {
			*issues = append(*issues, &EntryError{Stream: stream, Index: i, Err: err})
			continue
		}
		out = append(out, v)
	}
	return out
}

// parseDistance requires current_distance; every other field is optional and
// ignored when malformed.
func parseDistance(raw []byte) (DistanceReading, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return DistanceReading{}, err
	}
	current, ok, err := obj.number("current_distance")
	if err != nil {
		return DistanceReading{}, fmt.Errorf("current_distance: %w", err)
	}
	if !ok {
		return DistanceReading{}, fmt.Errorf("current_distance: %w", errMissingField)
	}
	return DistanceReading{
		Current:    current,
		Initial:    obj.optionalNumber("initial_distance"),
		Difference: obj.optionalNumber("distance_difference"),
		Elapsed:    obj.optionalNumber("elapsed_time"),
		Source:     obj.text("source"),
		Timestamp:  obj.timestamp("timestamp"),
	}, nil
}

func parseAPICall(raw []byte) (APICallRecord, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return APICallRecord{}, err
	}
	endpoint := obj.text("endpoint")
	if endpoint == "" {
		return APICallRecord{}, fmt.Errorf("endpoint: %w", errMissingField)
	}
	status, ok, err := obj.number("status")
	if err != nil {
		return APICallRecord{}, fmt.Errorf("status: %w", err)
	}
	if !ok {
		return APICallRecord{}, fmt.Errorf("status: %w", errMissingField)
	}
	return APICallRecord{
		Endpoint:  endpoint,
		Status:    int(status),
		Method:    strings.ToUpper(obj.text("method")),
		IP:        obj.text("ip", "source_ip"),
		Timestamp: obj.timestamp("timestamp"),
	}, nil
}
