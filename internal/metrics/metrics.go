package metrics

import (
	"strconv"
	"time"

	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TryOn exports try-on session metrics and implements tryon.Observer
type TryOn struct {
	jobsSubmitted   prometheus.Counter
	statusQueries   *prometheus.CounterVec
	statusFailures  prometheus.Counter
	outcomes        *prometheus.CounterVec
	sessionDuration *prometheus.HistogramVec
	attemptsUsed    prometheus.Histogram
	inFlight        prometheus.Gauge
}

// NewTryOn registers the try-on metrics on reg
func NewTryOn(reg prometheus.Registerer) *TryOn {
	factory := promauto.With(reg)

	return &TryOn{
		jobsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vtryon_jobs_submitted_total",
			Help: "Total number of try-on jobs accepted by the remote API",
		}),
		statusQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vtryon_status_queries_total",
			Help: "Status queries answered by the remote API, by reported status",
		}, []string{"status"}),
		statusFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vtryon_status_query_failures_total",
			Help: "Status queries that failed with a transport or HTTP error",
		}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vtryon_outcomes_total",
			Help: "Finished try-on sessions by outcome kind",
		}, []string{"kind", "success"}),
		// 0.5s .. ~128s, covers the 60s polling ceiling
		sessionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vtryon_session_duration_seconds",
			Help:    "Wall time from submission to outcome",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 9),
		}, []string{"success"}),
		attemptsUsed: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vtryon_terminal_status_attempt",
			Help:    "Attempt number at which a terminal remote status was observed",
			Buckets: prometheus.LinearBuckets(1, 3, 11),
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vtryon_sessions_in_flight",
			Help: "Submitted sessions that have not produced an outcome yet",
		}),
	}
}

var _ tryon.Observer = (*TryOn)(nil)

// Submitted implements tryon.Observer
func (m *TryOn) Submitted(id string) {
	m.jobsSubmitted.Inc()
	// Finished can only match a session back to its submission by id
	if id != "" {
		m.inFlight.Inc()
	}
}

// Polled implements tryon.Observer
func (m *TryOn) Polled(_ string, attempt int, status tryon.Status) {
	m.statusQueries.WithLabelValues(status.String()).Inc()
	if status.Terminal() {
		m.attemptsUsed.Observe(float64(attempt))
	}
}

// PollFailed implements tryon.Observer
func (m *TryOn) PollFailed(string, int, error) {
	m.statusFailures.Inc()
}

// Finished implements tryon.Observer
func (m *TryOn) Finished(outcome tryon.Outcome, elapsed time.Duration) {
	success := strconv.FormatBool(outcome.Success)
	m.outcomes.WithLabelValues(outcome.Kind.String(), success).Inc()
	m.sessionDuration.WithLabelValues(success).Observe(elapsed.Seconds())

	// sessions without an id were never counted as in flight
	if outcome.ID != "" {
		m.inFlight.Dec()
	}
}
