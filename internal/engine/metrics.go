package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors shared by all sessions. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	polls    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iotmon",
			Name:      "polls_total",
			Help:      "Reconciliation passes attempted.",
		}, []string{"dashboard"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iotmon",
			Name:      "poll_errors_total",
			Help:      "Passes skipped because the fetch failed.",
		}, []string{"dashboard", "kind"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iotmon",
			Name:      "dropped_entries_total",
			Help:      "Snapshot fields and entries dropped as malformed.",
		}, []string{"dashboard", "stream"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "iotmon",
			Name:      "poll_duration_seconds",
			Help:      "Time spent fetching the status endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"dashboard"}),
	}
	for _, c := range []prometheus.Collector{m.polls, m.errors, m.dropped, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observePoll(dashboard string, took time.Duration) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(dashboard).Inc()
	m.duration.WithLabelValues(dashboard).Observe(took.Seconds())
}

func (m *Metrics) observeError(dashboard string, kind FetchErrorKind) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(dashboard, string(kind)).Inc()
}

func (m *Metrics) observeDropped(dashboard string, stream Stream) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(dashboard, string(stream)).Inc()
}
