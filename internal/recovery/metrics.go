package recovery

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricSweepsTotal         = "recovery_sweeps_total"
	MetricRecordsSweptTotal   = "recovery_records_swept_total"
	MetricCancelFailuresTotal = "recovery_cancel_failures_total"
)

// Status constants for sweep completion.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains Prometheus metrics for the recovery sweep.
// All operations are thread-safe.
type Metrics struct {
	sweepsTotal    *prometheus.CounterVec
	recordsSwept   prometheus.Counter
	cancelFailures prometheus.Counter
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register them
// with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSweepsTotal,
				Help: "Total number of recovery sweep executions by status",
			},
			[]string{"status"},
		),
		recordsSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRecordsSweptTotal,
				Help: "Total number of stale recovery records cleaned up",
			},
		),
		cancelFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricCancelFailuresTotal,
				Help: "Total number of failed or rejected recovery cancel RPCs",
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncSweeps increments the sweep counter for the given status.
func (m *Metrics) IncSweeps(status string) {
	m.sweepsTotal.WithLabelValues(status).Inc()
}

// AddRecordsSwept adds to the swept-records counter.
func (m *Metrics) AddRecordsSwept(n int) {
	m.recordsSwept.Add(float64(n))
}

// IncCancelFailures increments the failed-cancel counter.
func (m *Metrics) IncCancelFailures() {
	m.cancelFailures.Inc()
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.sweepsTotal,
		m.recordsSwept,
		m.cancelFailures,
	}
}
