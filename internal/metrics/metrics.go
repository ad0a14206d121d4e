// Package metrics holds the Prometheus instruments for the board server.
//
// All methods are safe to call on a nil *Metrics, so components can be built
// without instrumentation in tests and tools.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeBusy  = "busy"
)

type Metrics struct {
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	Cycles           *prometheus.CounterVec
	CycleDuration    prometheus.Histogram
	Reveals          *prometheus.CounterVec
}

// New builds the instruments and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Trivia provider requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_seconds",
			Help:      "Trivia provider request latency",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"endpoint"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deal_cycles_total",
			Help:      "Board deal cycles by outcome",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deal_cycle_seconds",
			Help:      "Time from category selection to redraw",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		Reveals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clue_reveals_total",
			Help:      "Cell clicks by the state the clue ended in",
		}, []string{"state"}),
	}

	reg.MustRegister(
		m.ProviderRequests,
		m.ProviderLatency,
		m.Cycles,
		m.CycleDuration,
		m.Reveals,
	)
	return m
}

func (m *Metrics) ObserveProvider(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveCycle(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Cycles.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.CycleDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncReveal(state string) {
	if m == nil {
		return
	}
	m.Reveals.WithLabelValues(state).Inc()
}
