// Package metrics exposes Prometheus instruments for ingestion runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crimson-sun/gcingest/internal/model"
)

const namespace = "gcingest"

// Skip reasons recorded on records_skipped_total.
const (
	ReasonEmptyConcurrent = "empty_concurrent"
	ReasonExcluded        = "excluded"
	ReasonDropped         = "dropped"
)

// Metrics holds the ingestion instruments. A nil *Metrics records nothing.
type Metrics struct {
	events   *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	warnings prometheus.Counter
	sessions *prometheus.CounterVec
	pauses   *prometheus.HistogramVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "GC events emitted, by phase and cause.",
		}, []string{"phase", "cause"}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Input records that produced no event.",
		}, []string{"reason"}),
		warnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Classification and reconstruction warnings.",
		}),
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Completed ingestion sessions, by outcome.",
		}, []string{"outcome"}),
		pauses: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pause_seconds",
			Help:      "Stop-the-world pause durations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"phase"}),
	}
}

// ObserveEvent counts e and, for non-concurrent events, records its pause.
func (m *Metrics) ObserveEvent(e model.GCEvent) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(e.Phase.String(), e.Cause.String()).Inc()
	if !e.IsConcurrent() && e.PauseMu >= 0 {
		m.pauses.WithLabelValues(e.Phase.String()).Observe(float64(e.PauseMu) / 1e6)
	}
}

// Skipped adds n records skipped for reason.
func (m *Metrics) Skipped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skipped.WithLabelValues(reason).Add(float64(n))
}

// Warnings adds n warnings.
func (m *Metrics) Warnings(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.warnings.Add(float64(n))
}

// Session counts a finished session; failed sessions are labelled "error".
func (m *Metrics) Session(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.sessions.WithLabelValues(outcome).Inc()
}

// Handler serves the instruments registered with g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
