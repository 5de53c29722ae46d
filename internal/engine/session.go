package engine

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/tonhe/iotmon/internal/dashboard"
)

// ErrStopped is returned by Tick once the session has been stopped.
var ErrStopped = errors.New("session stopped")

// Option configures a Session.
type Option func(*Session)

// WithSource replaces the HTTP fetcher.
func WithSource(src SnapshotSource) Option {
	return func(s *Session) { s.source = src }
}

// WithLogger sets the logger. Sessions log nothing by default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.baseLog = l }
}

// WithMetrics records every pass in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session polls one dashboard endpoint and reconciles the responses into
// bounded histories. All reconciliation happens under mu, one pass at a time;
// readers only ever load the published *State.
type Session struct {
	mu      sync.Mutex
	id      string
	dash    *dashboard.Dashboard
	source  SnapshotSource
	baseLog logrus.FieldLogger
	log     logrus.FieldLogger
	metrics *Metrics
	now     func() time.Time

	trim     trimmer
	distance *RingBuffer[DistanceReading]
	apiLog   *RingBuffer[APICallRecord]
	schedule *RingBuffer[ScheduleDisplayEntry]
	logs     *RingBuffer[LogDisplayEntry]

	// Projections cached by buffer version.
	apiVersion      uint64
	stats           map[string]EndpointStats
	recent          []APICallRecord
	scheduleVersion uint64
	scheduleView    []ScheduleDisplayEntry
	logsVersion     uint64
	logView         []LogDisplayEntry

	state atomic.Pointer[State]

	subMu       sync.Mutex
	subscribers []chan Event

	limiter   *rate.Limiter
	refreshCh chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopped  atomic.Bool
	running  atomic.Bool
}

// NewSession creates a Session for dash. Defaults are applied to dash, and an
// empty State is published immediately so the UI can render before the first
// pass completes.
func NewSession(dash *dashboard.Dashboard, opts ...Option) *Session {
	dash.ApplyDefaults()
	s := &Session{
		id:        uuid.NewString(),
		dash:      dash,
		now:       time.Now,
		distance:  NewRingBuffer[DistanceReading](dash.History.Distance),
		apiLog:    NewRingBuffer[APICallRecord](dash.History.APILog),
		schedule:  NewRingBuffer[ScheduleDisplayEntry](dash.History.Schedule),
		logs:      NewRingBuffer[LogDisplayEntry](dash.History.Logs),
		stats:     map[string]EndpointStats{},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		refreshCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		s.source = NewFetcher(dash.Endpoint, dash.Timeout)
	}
	if s.baseLog == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.baseLog = l
	}
	s.log = s.baseLog.WithFields(logrus.Fields{
		"dashboard": dash.Name,
		"session":   s.id,
	})
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.recent = []APICallRecord{}
	s.scheduleView = []ScheduleDisplayEntry{}
	s.logView = []LogDisplayEntry{}
	s.state.Store(&State{
		Name:            dash.Name,
		SessionID:       s.id,
		Endpoint:        dash.Endpoint,
		DistanceHistory: s.distance.View(),
		EndpointStats:   s.stats,
		RecentCalls:     s.recent,
		ScheduleView:    s.scheduleView,
		LogView:         s.logView,
	})
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Dashboard returns the dashboard this session polls.
func (s *Session) Dashboard() *dashboard.Dashboard { return s.dash }

// State returns the most recently published state. It never blocks and never
// observes a pass in progress.
func (s *Session) State() *State {
	return s.state.Load()
}

// Run polls until ctx is cancelled or Stop is called: one pass immediately,
// then one per interval, plus any passes requested with Refresh. Passes run on
// this goroutine, so they never overlap. A second concurrent Run returns at
// once.
func (s *Session) Run(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	s.log.WithField("interval", s.dash.Interval).Info("session started")
	defer s.log.Info("session stopped")

	s.Tick(ctx)

	ticker := time.NewTicker(s.dash.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		case <-s.refreshCh:
			s.Tick(ctx)
			ticker.Reset(s.dash.Interval)
		}
	}
}

// Refresh asks Run for an immediate pass. Requests are throttled to one per
// second; it reports whether the request was accepted.
func (s *Session) Refresh() bool {
	if s.stopped.Load() || !s.limiter.Allow() {
		return false
	}
	select {
	case s.refreshCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Stop cancels the timer and any in-flight fetch. Once Stop returns no state
// is published; a pass that completes later is discarded. Stop is idempotent.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.subMu.Lock()
		s.stopped.Store(true)
		s.subMu.Unlock()
		s.cancel()
	})
}

// Stopped reports whether Stop has been called.
func (s *Session) Stopped() bool {
	return s.stopped.Load()
}

// Tick runs one reconciliation pass: fetch, trim, normalize, push, publish.
// A fetch failure leaves every history untouched and publishes the previous
// views marked stale. The returned error is the fetch error, if any.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() {
		return ErrStopped
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.dash.Timeout)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	start := s.now()
	snap, err := s.source.FetchSnapshot(fetchCtx)
	took := s.now().Sub(start)

	if s.stopped.Load() {
		s.log.Debug("discarding result fetched after stop")
		return ErrStopped
	}
	s.metrics.observePoll(s.dash.Name, took)

	if err != nil {
		if !s.failLocked(err) {
			return ErrStopped
		}
		return err
	}
	if !s.applyLocked(snap) {
		return ErrStopped
	}
	return nil
}

func (s *Session) failLocked(err error) bool {
	kind := KindNetwork
	var fe *FetchError
	if errors.As(err, &fe) {
		kind = fe.Kind
	}
	s.metrics.observeError(s.dash.Name, kind)
	s.log.WithError(err).WithField("kind", kind).Warn("poll failed")

	prev := s.state.Load()
	next := *prev
	next.Seq++
	next.PollCount++
	next.ErrorCount++
	next.LastPoll = s.now()
	next.LastError = err
	next.ErrorText = err.Error()
	next.Stale = true
	return s.publish(&next)
}

func (s *Session) applyLocked(snap *Snapshot) bool {
	trimmed := s.trim.trim(snap)
	u := Normalize(trimmed)

	if u.Distance != nil {
		s.distance.Push(*u.Distance)
	}
	s.apiLog.Push(u.APICalls...)
	if trimmed.Schedule != nil {
		s.schedule.Replace(u.Schedule...)
	}
	s.logs.Push(u.Logs...)

	for _, issue := range u.Issues {
		stream := issueStream(issue)
		s.metrics.observeDropped(s.dash.Name, stream)
		s.log.WithError(issue).WithField("stream", stream).Debug("dropped malformed entry")
	}
	if len(u.Issues) > 0 {
		s.log.WithField("count", len(u.Issues)).Warn("dropped malformed entries")
	}

	s.projectLocked()

	prev := s.state.Load()
	now := s.now()
	return s.publish(&State{
		Name:            s.dash.Name,
		SessionID:       s.id,
		Endpoint:        s.dash.Endpoint,
		Seq:             prev.Seq + 1,
		DistanceHistory: s.distance.View(),
		EndpointStats:   s.stats,
		RecentCalls:     s.recent,
		ScheduleView:    s.scheduleView,
		LogView:         s.logView,
		LastPoll:        now,
		LastSuccess:     now,
		PollCount:       prev.PollCount + 1,
		ErrorCount:      prev.ErrorCount,
		DroppedEntries:  prev.DroppedEntries + len(u.Issues),
	})
}

// projectLocked rebuilds derived views only for buffers whose version moved,
// so unchanged streams keep handing out the same slices and map.
func (s *Session) projectLocked() {
	if v := s.apiLog.Version(); v != s.apiVersion {
		s.apiVersion = v
		view := s.apiLog.View()
		s.stats = ComputeStats(view)
		s.recent = newestFirst(view)
	}
	if v := s.schedule.Version(); v != s.scheduleVersion {
		s.scheduleVersion = v
		s.scheduleView = newestFirst(s.schedule.View())
	}
	if v := s.logs.Version(); v != s.logsVersion {
		s.logsVersion = v
		s.logView = newestFirst(s.logs.View())
	}
}

// Subscribe returns a channel that receives an event after each pass.
// Release it with Unsubscribe.
func (s *Session) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe stops delivery to a channel returned by Subscribe. Unknown
// channels are ignored.
func (s *Session) Unsubscribe(ch <-chan Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = slices.DeleteFunc(s.subscribers, func(c chan Event) bool {
		return (<-chan Event)(c) == ch
	})
}

// publish stores st and notifies subscribers without blocking. It reports
// false and drops st once the session is stopped; Stop takes subMu, so no
// state is published after Stop returns.
func (s *Session) publish(st *State) bool {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.stopped.Load() {
		return false
	}
	s.state.Store(st)
	event := Event{DashboardName: s.dash.Name, State: st}
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	return true
}

// Info returns summary information about this session.
func (s *Session) Info() SessionInfo {
	st := s.state.Load()
	state := SessionStopped
	if s.running.Load() && !s.stopped.Load() {
		state = SessionRunning
	}
	return SessionInfo{
		Name:       s.dash.Name,
		ID:         s.id,
		Endpoint:   s.dash.Endpoint,
		State:      state,
		LastPoll:   st.LastPoll,
		PollCount:  st.PollCount,
		ErrorCount: st.ErrorCount,
		Stale:      st.Stale,
	}
}
