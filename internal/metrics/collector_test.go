package wscmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	wscmetrics "github.com/dantte-lp/gowsc/internal/metrics"
	"github.com/dantte-lp/gowsc/internal/wsc"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wscmetrics.NewCollector(reg)

	if c.HandshakesStarted == nil {
		t.Error("HandshakesStarted is nil")
	}
	if c.HandshakesCompleted == nil {
		t.Error("HandshakesCompleted is nil")
	}
	if c.PDUsDropped == nil {
		t.Error("PDUsDropped is nil")
	}
	if c.NACKsSent == nil {
		t.Error("NACKsSent is nil")
	}
	if c.StateTransitions == nil {
		t.Error("StateTransitions is nil")
	}

	// Registration must not panic and gathering must succeed.
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

// counterValue extracts the value of a plain counter.
func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

// labeledValue extracts the value of one child of a counter vector.
func labeledValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCollectorCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wscmetrics.NewCollector(reg)

	c.HandshakeStarted()
	c.HandshakeStarted()
	c.HandshakeCompleted()
	c.PDUDropped("fragmented payload")
	c.PDUDropped("fragmented payload")
	c.PDUDropped("M2 authenticator mismatch")
	c.NACKSent(wsc.ConfigErrorDecryptionCRCFailure)
	c.RecordStateTransition(wsc.StateExpectStart.String(), wsc.StateExpectM2.String())

	if got := counterValue(t, c.HandshakesStarted); got != 2 {
		t.Errorf("HandshakesStarted = %v, want 2", got)
	}
	if got := counterValue(t, c.HandshakesCompleted); got != 1 {
		t.Errorf("HandshakesCompleted = %v, want 1", got)
	}
	if got := labeledValue(t, c.PDUsDropped, "fragmented payload"); got != 2 {
		t.Errorf("PDUsDropped(fragmented) = %v, want 2", got)
	}
	if got := labeledValue(t, c.PDUsDropped, "M2 authenticator mismatch"); got != 1 {
		t.Errorf("PDUsDropped(authenticator) = %v, want 1", got)
	}
	if got := labeledValue(t, c.NACKsSent, wsc.ConfigErrorDecryptionCRCFailure.String()); got != 1 {
		t.Errorf("NACKsSent = %v, want 1", got)
	}
	if got := labeledValue(t, c.StateTransitions, "ExpectStart", "ExpectM2"); got != 1 {
		t.Errorf("StateTransitions = %v, want 1", got)
	}
}

func TestCollectorImplementsMetricsReporter(t *testing.T) {
	t.Parallel()

	// The collector satisfies the core's reporter contract.
	var _ wsc.MetricsReporter = wscmetrics.NewCollector(prometheus.NewRegistry())
}
