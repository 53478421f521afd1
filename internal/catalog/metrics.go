package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcome labels.
const (
	outcomeOK        = "ok"
	outcomeFatal     = "fatal"
	outcomeExhausted = "exhausted"
	outcomeCancelled = "cancelled"
)

// Metrics collects resolution telemetry. A nil *Metrics is valid and
// records nothing, so the client works without a registry wired in.
type Metrics struct {
	registry *prometheus.Registry

	lookups  *prometheus.CounterVec
	retries  prometheus.Counter
	duration prometheus.Histogram
	missing  prometheus.Counter
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "catalog"
	}

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "lookups_total",
			Help:      "Completed resolution calls by outcome",
		},
		[]string{"outcome"},
	)
	m.retries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "retries_total",
			Help:      "Retry attempts taken after rate-limit responses",
		},
	)
	m.duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "lookup_duration_seconds",
			Help:      "Wall time of resolution calls including backoff waits",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
	m.missing = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "missing_identifiers_total",
			Help:      "Requested identifiers the catalog did not resolve",
		},
	)

	m.registry.MustRegister(m.lookups, m.retries, m.duration, m.missing)
	return m
}

// Registry exposes the underlying registry for scrape wiring.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) observeLookup(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) incRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) addMissing(n int) {
	if m == nil || n == 0 {
		return
	}
	m.missing.Add(float64(n))
}
