package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics records catalog fetch behaviour for the query controller.
type QueryMetrics struct {
	duration    *prometheus.HistogramVec
	dispatched  *prometheus.CounterVec
	stale       *prometheus.CounterVec
	failures    *prometheus.CounterVec
	suggestions prometheus.Counter
}

// NewQueryMetrics registers the query metrics on the provided registerer.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "query_fetch_duration_seconds",
		Help:    "Duration of committed catalog fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	dispatched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_fetch_dispatched",
		Help: "Committed catalog fetches dispatched.",
	}, []string{"mode"})
	stale := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_fetch_stale_discarded",
		Help: "Fetch responses discarded because a newer sequence superseded them.",
	}, []string{"mode"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_fetch_failures",
		Help: "Catalog fetches routed to the failure view.",
	}, []string{"mode"})
	suggestions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "query_suggestion_lookups",
		Help: "Suggestion lookups issued while typing.",
	})
	reg.MustRegister(duration, dispatched, stale, failures, suggestions)
	return &QueryMetrics{
		duration:    duration,
		dispatched:  dispatched,
		stale:       stale,
		failures:    failures,
		suggestions: suggestions,
	}
}

// ObserveFetch records the duration of a resolved fetch for the given mode.
func (q *QueryMetrics) ObserveFetch(mode string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncDispatched increments the dispatched counter for the given mode.
func (q *QueryMetrics) IncDispatched(mode string) {
	if q == nil || q.dispatched == nil {
		return
	}
	q.dispatched.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncStale increments the stale-discard counter for the given mode.
func (q *QueryMetrics) IncStale(mode string) {
	if q == nil || q.stale == nil {
		return
	}
	q.stale.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncFailure increments the failure counter for the given mode.
func (q *QueryMetrics) IncFailure(mode string) {
	if q == nil || q.failures == nil {
		return
	}
	q.failures.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncSuggestionLookup counts one suggestion lookup.
func (q *QueryMetrics) IncSuggestionLookup() {
	if q == nil || q.suggestions == nil {
		return
	}
	q.suggestions.Inc()
}

func normalizeLabel(mode string) string {
	if mode == "" {
		return "unknown"
	}
	return mode
}
