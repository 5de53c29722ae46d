package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// object is a decoded JSON object whose values are read lazily, so one bad
// value only affects the field it belongs to.
type object map[string]jsoniter.RawMessage

func decodeObject(raw []byte) (object, error) {
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

// text returns the first key holding a string or a number, rendered as text.
func (o object) text(keys ...string) string {
	for _, k := range keys {
		raw, ok := o[k]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return ""
}

// number returns the first key holding a JSON number. ok is false when none
// of the keys are present; err is set when one is present but not a number.
func (o object) number(keys ...string) (v float64, ok bool, err error) {
	for _, k := range keys {
		raw, present := o[k]
		if !present || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, &v); err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, true, errInvalidNumber
		}
		return v, true, nil
	}
	return 0, false, nil
}

// optionalNumber is number without the error: a malformed optional value is
// treated as absent.
func (o object) optionalNumber(keys ...string) *float64 {
	v, ok, err := o.number(keys...)
	if !ok || err != nil {
		return nil
	}
	return &v
}

// timestamp accepts RFC 3339 text or epoch seconds. Anything else yields zero.
func (o object) timestamp(keys ...string) time.Time {
	for _, k := range keys {
		raw, ok := o[k]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
				return t
			}
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil && f > 0 {
			return epochSeconds(f)
		}
	}
	return time.Time{}
}

func epochSeconds(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// decodeString reports whether raw is a JSON string and returns it.
func decodeString(raw []byte) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
