package payment

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricPaymentsTotal         = "wallet_payments_total"
	MetricBackendRPCDuration    = "wallet_backend_rpc_duration_seconds"
	MetricDuplicateSignalsTotal = "wallet_duplicate_signals_total"
)

// RPC name constants for labeling.
const (
	RPCApprove  = "approve"
	RPCComplete = "complete"
	RPCCancel   = "cancel"
)

// Metrics contains Prometheus metrics for payment orchestration.
// All operations are thread-safe.
type Metrics struct {
	paymentsTotal    *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
	duplicateSignals *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register them
// with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		paymentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPaymentsTotal,
				Help: "Total number of payments reaching a terminal state, by outcome",
			},
			[]string{"outcome"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricBackendRPCDuration,
				Help:    "Histogram of backend RPC duration in seconds by RPC name",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"rpc"},
		),
		duplicateSignals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricDuplicateSignalsTotal,
				Help: "Total number of duplicate or late lifecycle signals suppressed, by signal",
			},
			[]string{"signal"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncOutcome increments the terminal-outcome counter.
func (m *Metrics) IncOutcome(status Status) {
	m.paymentsTotal.WithLabelValues(string(status)).Inc()
}

// ObserveRPCDuration records a backend RPC duration sample.
func (m *Metrics) ObserveRPCDuration(rpc string, seconds float64) {
	m.rpcDuration.WithLabelValues(rpc).Observe(seconds)
}

// IncDuplicateSignal increments the suppressed-signal counter.
// signal: the suppressed source, e.g. "approval_callback" or "feed_completed".
func (m *Metrics) IncDuplicateSignal(signal string) {
	m.duplicateSignals.WithLabelValues(signal).Inc()
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.paymentsTotal,
		m.rpcDuration,
		m.duplicateSignals,
	}
}
