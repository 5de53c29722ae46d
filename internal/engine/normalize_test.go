package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, body string) *Snapshot {
	t.Helper()
	snap, err := DecodeSnapshot([]byte(body))
	require.NoError(t, err)
	return snap
}

func TestNormalizeScheduleRequiredItems(t *testing.T) {
	snap := mustDecode(t, `{"schedule":[
		{"이름":"성우","시간":"06:00","목표시간":"06:00","준비물":"없음"},
		{"이름":"민지","시간":"07:30","목표시간":"08:00","준비물":"노트북"}
	]}`)

	u := Normalize(snap)
	require.Len(t, u.Schedule, 2)
	assert.Empty(t, u.Issues)

	none := u.Schedule[0]
	assert.Equal(t, "성우", none.Primary)
	assert.Equal(t, "06:00", none.Time)
	assert.Equal(t, "06:00", none.TargetTime)
	assert.Equal(t, NoItemsLabel, none.RequiredItems)
	assert.False(t, none.HasItems())
	assert.Equal(t, Structured, none.Entry.Kind)
	assert.Equal(t, NoItemsSentinel, none.Entry.RequiredItems)

	laptop := u.Schedule[1]
	assert.Equal(t, "노트북", laptop.RequiredItems)
	assert.True(t, laptop.HasItems())
}

func TestNormalizeScheduleVariants(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		primary string
		items   string
		kind    EntryKind
		wantErr error
	}{
		{name: "plain text", raw: `"06:00 morning run"`, primary: "06:00 morning run", items: NoItemsLabel, kind: PlainText},
		{name: "feature only", raw: `{"사용기능":"alarm"}`, primary: "alarm", items: NoItemsLabel, kind: Structured},
		{name: "english keys", raw: `{"name":"Kim","time":"09:00","required_items":"keys"}`, primary: "Kim", items: "keys", kind: Structured},
		{name: "blank text", raw: `"   "`, wantErr: errEmptyText},
		{name: "no usable field", raw: `{"준비물":"노트북"}`, wantErr: errMissingField},
		{name: "number", raw: `42`, wantErr: errUnsupported},
		{name: "array", raw: `["a"]`, wantErr: errUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := parseScheduleEntry([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			d := e.Display()
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.primary, d.Primary)
			assert.Equal(t, tt.items, d.RequiredItems)
		})
	}
}

func TestNormalizeLogFaultIsolation(t *testing.T) {
	snap := mustDecode(t, `{"logs":[
		"server started on :3000",
		42,
		{"timestamp":"2024-05-01 10:00:00","source_ip":"10.0.0.7","method":"get","endpoint":"/api/voice-result","status":404}
	]}`)

	u := Normalize(snap)
	require.Len(t, u.Logs, 2)
	require.Len(t, u.Issues, 1)

	var ee *EntryError
	require.True(t, errors.As(u.Issues[0], &ee))
	assert.Equal(t, StreamLogs, ee.Stream)
	assert.Equal(t, 1, ee.Index)

	plain := u.Logs[0]
	assert.Equal(t, "server started on :3000", plain.Text)
	assert.Equal(t, CategoryNone, plain.Category)
	assert.Equal(t, BadgeNone, plain.Badge)

	structured := u.Logs[1]
	assert.Equal(t, "2024-05-01 10:00:00 10.0.0.7 GET /api/voice-result 404", structured.Text)
	assert.Equal(t, CategoryVoice, structured.Category)
	assert.Equal(t, BadgeClientError, structured.Badge)
}

func TestLogLineDisplay(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		text     string
		category Category
		badge    StatusBadge
	}{
		{name: "distance ok", raw: `{"endpoint":"/api/distance","status":200}`, text: "/api/distance 200", category: CategoryDistance, badge: BadgeSuccess},
		{name: "schedule failure", raw: `{"endpoint":"/api/schedule","status":500}`, text: "/api/schedule 500", category: CategorySchedule, badge: BadgeServerError},
		{name: "web page", raw: `{"endpoint":"/index.html","status":200}`, text: "/index.html 200", category: CategoryWeb, badge: BadgeSuccess},
		{name: "message only", raw: `{"message":"sensor online"}`, text: "sensor online", category: CategoryWeb, badge: BadgeNone},
		{name: "endpoint and message", raw: `{"endpoint":"/api","message":"hello"}`, text: "/api - hello", category: CategoryWeb, badge: BadgeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := parseLogLine([]byte(tt.raw))
			require.NoError(t, err)
			d := l.Display()
			assert.Equal(t, tt.text, d.Text)
			assert.Equal(t, tt.category, d.Category)
			assert.Equal(t, tt.badge, d.Badge)
		})
	}
}

func TestLogLineRejects(t *testing.T) {
	for _, raw := range []string{`{"endpoint":"/api","status":"ok"}`, `{}`, `""`, `true`} {
		_, err := parseLogLine([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestBadgeForStatus(t *testing.T) {
	assert.Equal(t, BadgeSuccess, BadgeForStatus(204))
	assert.Equal(t, BadgeClientError, BadgeForStatus(404))
	assert.Equal(t, BadgeServerError, BadgeForStatus(503))
	assert.Equal(t, BadgeServerError, BadgeForStatus(302))
	assert.Equal(t, "client-error", BadgeClientError.String())
}

func TestNormalizeDistance(t *testing.T) {
	fetched := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	snap := mustDecode(t, `{"distance":{"current_distance":20.1,"initial_distance":19,"elapsed_time":12.5,"source":"sensor"}}`)
	snap.FetchedAt = fetched

	u := Normalize(snap)
	require.NotNil(t, u.Distance)
	assert.Equal(t, 20.1, u.Distance.Current)
	assert.Equal(t, fetched, u.Distance.ReceivedAt)
	assert.Equal(t, "sensor", u.Distance.Source)
	require.NotNil(t, u.Distance.Elapsed)
	assert.Equal(t, 12.5, *u.Distance.Elapsed)
	assert.Equal(t, DistanceChanging, u.Distance.Status())
}

func TestDistanceStatus(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, DistanceStable, DistanceReading{Current: 10}.Status())
	assert.Equal(t, DistanceStable, DistanceReading{Current: 10.4, Initial: f(10)}.Status())
	assert.Equal(t, DistanceChanging, DistanceReading{Current: 9.3, Initial: f(10)}.Status())
	assert.Equal(t, DistanceStable, DistanceReading{Current: 50, Initial: f(10), Difference: f(0.2)}.Status())
}

func TestNormalizeDistanceMalformed(t *testing.T) {
	for _, body := range []string{
		`{"distance":{"current_distance":"far"}}`,
		`{"distance":{"initial_distance":3}}`,
		`{"distance":17}`,
	} {
		u := Normalize(mustDecode(t, body))
		assert.Nil(t, u.Distance, body)
		require.Len(t, u.Issues, 1, body)
		var fe *FieldError
		require.True(t, errors.As(u.Issues[0], &fe), body)
		assert.Equal(t, StreamDistance, fe.Stream)
	}
}

func TestNormalizeAPILog(t *testing.T) {
	snap := mustDecode(t, `{"api_log":[
		{"endpoint":"/api/distance","status":200,"method":"post","ip":"10.0.0.9","timestamp":"2024-05-01T10:00:00Z"},
		{"endpoint":"/api/distance"},
		{"status":200},
		{"endpoint":"/api","status":404}
	]}`)

	u := Normalize(snap)
	require.Len(t, u.APICalls, 2)
	require.Len(t, u.Issues, 2)

	first := u.APICalls[0]
	assert.Equal(t, "POST", first.Method)
	assert.Equal(t, "10.0.0.9", first.IP)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), first.Timestamp)
	assert.True(t, first.Success())
	assert.False(t, u.APICalls[1].Success())

	indexes := []int{}
	for _, issue := range u.Issues {
		var ee *EntryError
		require.True(t, errors.As(issue, &ee))
		assert.Equal(t, StreamAPILog, ee.Stream)
		assert.ErrorIs(t, issue, errMissingField)
		indexes = append(indexes, ee.Index)
	}
	assert.Equal(t, []int{1, 2}, indexes)
}

func TestNormalizeEmpty(t *testing.T) {
	u := Normalize(mustDecode(t, `{"schedule":[],"logs":[]}`))
	assert.True(t, u.Empty())
	assert.Empty(t, u.Issues)
	assert.True(t, Normalize(nil).Empty())
}

func TestDecodeSnapshotFieldFaults(t *testing.T) {
	snap := mustDecode(t, `{"distance":null,"api_log":"oops","schedule":{"a":1},"logs":["ok"]}`)

	assert.Nil(t, snap.Distance)
	assert.Nil(t, snap.APILog)
	assert.Nil(t, snap.Schedule)
	assert.Len(t, snap.Logs, 1)
	require.Len(t, snap.Faults, 2)
	assert.Equal(t, StreamAPILog, issueStream(snap.Faults[0]))
	assert.Equal(t, StreamSchedule, issueStream(snap.Faults[1]))
	assert.ErrorIs(t, snap.Faults[0], errNotList)
}

func TestDecodeSnapshotCompactsEntries(t *testing.T) {
	a := mustDecode(t, `{"logs":[{ "message" : "x" }]}`)
	b := mustDecode(t, `{"logs":[{"message":"x"}]}`)
	assert.Equal(t, string(b.Logs[0]), string(a.Logs[0]))
}

func TestDecodeSnapshotRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`not json`, `[1,2]`, `null`, `"text"`, ``} {
		_, err := DecodeSnapshot([]byte(body))
		assert.ErrorIs(t, err, ErrDecode, body)
		assert.NotErrorIs(t, err, ErrNetwork, body)
	}
}

func TestTimestampField(t *testing.T) {
	obj, err := decodeObject([]byte(`{"a":"2024-05-01T10:00:00.5Z","b":1714557600,"c":"yesterday"}`))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 5e8, time.UTC), obj.timestamp("a"))
	assert.Equal(t, time.Unix(1714557600, 0).UTC(), obj.timestamp("b"))
	assert.True(t, obj.timestamp("c").IsZero())
	assert.True(t, obj.timestamp("missing").IsZero())
}
