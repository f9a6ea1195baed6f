package payment

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v) error = %v", labels, err)
	}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsOutcomes(t *testing.T) {
	m := NewMetrics()

	m.IncOutcome(StatusCompleted)
	m.IncOutcome(StatusCompleted)
	m.IncOutcome(StatusExpired)

	if got := counterValue(t, m.paymentsTotal, string(StatusCompleted)); got != 2 {
		t.Errorf("completed outcome = %v, want 2", got)
	}
	if got := counterValue(t, m.paymentsTotal, string(StatusExpired)); got != 1 {
		t.Errorf("expired outcome = %v, want 1", got)
	}
	if got := counterValue(t, m.paymentsTotal, string(StatusCancelled)); got != 0 {
		t.Errorf("cancelled outcome = %v, want 0", got)
	}
}

func TestMetricsDuplicateSignals(t *testing.T) {
	m := NewMetrics()

	m.IncDuplicateSignal("approval_callback")
	m.IncDuplicateSignal("approval_callback")
	m.IncDuplicateSignal("feed_completed")

	if got := counterValue(t, m.duplicateSignals, "approval_callback"); got != 2 {
		t.Errorf("approval_callback suppressions = %v, want 2", got)
	}
	if got := counterValue(t, m.duplicateSignals, "feed_completed"); got != 1 {
		t.Errorf("feed_completed suppressions = %v, want 1", got)
	}
}

func TestMetricsRPCDuration(t *testing.T) {
	m := NewMetrics()

	m.ObserveRPCDuration(RPCApprove, 0.2)
	m.ObserveRPCDuration(RPCApprove, 0.4)

	h, err := m.rpcDuration.GetMetricWithLabelValues(RPCApprove)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues() error = %v", err)
	}
	metric := &dto.Metric{}
	if err := h.(prometheus.Histogram).Write(metric); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := metric.GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("sample count = %d, want 2", got)
	}
	if got := metric.GetHistogram().GetSampleSum(); got < 0.59 || got > 0.61 {
		t.Errorf("sample sum = %v, want ~0.6", got)
	}
}

func TestMetricsRegister(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	// Registering the same collectors twice must fail.
	if err := m.Register(reg); err == nil {
		t.Error("second Register() error = nil, want duplicate registration error")
	}

	if got := len(m.Collectors()); got != 3 {
		t.Errorf("collectors = %d, want 3", got)
	}
}
