package engine

import (
	"fmt"
	"strings"
)

// Category groups log lines by the backend route they concern.
type Category string

const (
	CategoryNone     Category = ""
	CategoryWeb      Category = "web"
	CategoryDistance Category = "distance"
	CategoryVoice    Category = "voice"
	CategorySchedule Category = "schedule"
)

// categoryPrefixes is checked in order; the first match wins.
var categoryPrefixes = []struct {
	prefix   string
	category Category
}{
	{"/api/distance", CategoryDistance},
	{"/api/voice-result", CategoryVoice},
	{"/api/schedule", CategorySchedule},
}

// CategoryForEndpoint maps an endpoint path to its log category.
func CategoryForEndpoint(endpoint string) Category {
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(endpoint, p.prefix) {
			return p.category
		}
	}
	return CategoryWeb
}

// StatusBadge buckets an HTTP status for display.
type StatusBadge int

const (
	BadgeNone StatusBadge = iota
	BadgeSuccess
	BadgeClientError
	BadgeServerError
)

func (b StatusBadge) String() string {
	switch b {
	case BadgeSuccess:
		return "success"
	case BadgeClientError:
		return "client-error"
	case BadgeServerError:
		return "server-error"
	default:
		return "none"
	}
}

// MarshalText lets badges serialize by name.
func (b StatusBadge) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// BadgeForStatus buckets 2xx as success, 4xx as client error and everything
// else as server error.
func BadgeForStatus(status int) StatusBadge {
	switch {
	case status >= 200 && status < 300:
		return BadgeSuccess
	case status >= 400 && status < 500:
		return BadgeClientError
	default:
		return BadgeServerError
	}
}

// LogLine is one server log element: opaque text or a structured request
// record.
type LogLine struct {
	Kind      EntryKind `json:"kind"`
	Text      string    `json:"text,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
	SourceIP  string    `json:"source_ip,omitempty"`
	Method    string    `json:"method,omitempty"`
	Endpoint  string    `json:"endpoint,omitempty"`
	Status    int       `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// LogDisplayEntry is the rendered form of a LogLine.
type LogDisplayEntry struct {
	Text     string      `json:"text"`
	Category Category    `json:"category,omitempty"`
	Badge    StatusBadge `json:"badge"`
	Line     LogLine     `json:"line"`
}

func parseLogLine(raw []byte) (LogLine, error) {
	if s, ok := decodeString(raw); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return LogLine{}, errEmptyText
		}
		return LogLine{Kind: PlainText, Text: s}, nil
	}

	obj, err := decodeObject(raw)
	if err != nil {
		return LogLine{}, errUnsupported
	}
	line := LogLine{
		Kind:      Structured,
		Timestamp: obj.text("timestamp", "time"),
		SourceIP:  obj.text("source_ip", "ip"),
		Method:    strings.ToUpper(obj.text("method")),
		Endpoint:  obj.text("endpoint"),
		Message:   obj.text("message"),
	}
	status, ok, err := obj.number("status")
	if err != nil {
		return LogLine{}, fmt.Errorf("status: %w", err)
	}
	if ok {
		line.Status = int(status)
	}
	if line.Endpoint == "" && line.Message == "" {
		return LogLine{}, errMissingField
	}
	return line, nil
}

// Display renders a log line. Plain lines carry neither category nor badge.
func (l LogLine) Display() LogDisplayEntry {
	if l.Kind == PlainText {
		return LogDisplayEntry{Text: l.Text, Line: l}
	}
	var parts []string
	for _, p := range []string{l.Timestamp, l.SourceIP, l.Method, l.Endpoint} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if l.Status != 0 {
		parts = append(parts, fmt.Sprintf("%d", l.Status))
	}
	text := strings.Join(parts, " ")
	if l.Message != "" {
		if text != "" {
			text += " - "
		}
		text += l.Message
	}

	d := LogDisplayEntry{
		Text:     text,
		Category: CategoryForEndpoint(l.Endpoint),
		Line:     l,
	}
	if l.Status != 0 {
		d.Badge = BadgeForStatus(l.Status)
	}
	return d
}
