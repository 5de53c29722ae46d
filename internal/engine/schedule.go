package engine

import (
	"strings"
	"time"
)

// NoItemsSentinel is the backend's "nothing to bring" value.
const NoItemsSentinel = "없음"

// NoItemsLabel replaces NoItemsSentinel and missing values in display form.
const NoItemsLabel = "none"

// ScheduleEntry is a voice-registered schedule item: either plain display
// text or a structured record.
type ScheduleEntry struct {
	Kind          EntryKind `json:"kind"`
	Text          string    `json:"text,omitempty"`
	FeatureName   string    `json:"feature_name,omitempty"`
	PersonName    string    `json:"person_name,omitempty"`
	ScheduledTime string    `json:"scheduled_time,omitempty"`
	TargetTime    string    `json:"target_time,omitempty"`
	RequiredItems string    `json:"required_items,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// ScheduleDisplayEntry is the canonical form a widget renders. Entry keeps
// the structured fields so nothing is lost in normalization.
type ScheduleDisplayEntry struct {
	Primary       string        `json:"primary"`
	Time          string        `json:"time"`
	TargetTime    string        `json:"target_time"`
	RequiredItems string        `json:"required_items"`
	Entry         ScheduleEntry `json:"entry"`
}

// HasItems reports whether the entry names something to bring.
func (d ScheduleDisplayEntry) HasItems() bool {
	return d.RequiredItems != NoItemsLabel
}

// parseScheduleEntry interprets one raw schedule element.
func parseScheduleEntry(raw []byte) (ScheduleEntry, error) {
	if s, ok := decodeString(raw); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return ScheduleEntry{}, errEmptyText
		}
		return ScheduleEntry{Kind: PlainText, Text: s}, nil
	}

	obj, err := decodeObject(raw)
	if err != nil {
		return ScheduleEntry{}, errUnsupported
	}
	e := ScheduleEntry{
		Kind:          Structured,
		FeatureName:   obj.text("사용기능", "feature", "feature_name"),
		PersonName:    obj.text("이름", "name", "person_name", "title"),
		ScheduledTime: obj.text("시간", "time", "scheduled_time"),
		TargetTime:    obj.text("목표시간", "target_time"),
		RequiredItems: obj.text("준비물", "required_items", "items"),
		CreatedAt:     obj.timestamp("timestamp", "created_at"),
	}
	if e.PersonName == "" && e.FeatureName == "" && e.ScheduledTime == "" {
		return ScheduleEntry{}, errMissingField
	}
	return e, nil
}

// Display normalizes either variant into the canonical display tuple.
func (e ScheduleEntry) Display() ScheduleDisplayEntry {
	if e.Kind == PlainText {
		return ScheduleDisplayEntry{
			Primary:       e.Text,
			RequiredItems: NoItemsLabel,
			Entry:         e,
		}
	}
	primary := e.PersonName
	if primary == "" {
		primary = e.FeatureName
	}
	return ScheduleDisplayEntry{
		Primary:       primary,
		Time:          e.ScheduledTime,
		TargetTime:    e.TargetTime,
		RequiredItems: requiredItemsLabel(e.RequiredItems),
		Entry:         e,
	}
}

func requiredItemsLabel(items string) string {
	items = strings.TrimSpace(items)
	if items == "" || items == NoItemsSentinel {
		return NoItemsLabel
	}
	return items
}
