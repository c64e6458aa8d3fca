// Package wscmetrics exposes Prometheus metrics for WSC enrollee
// sessions.
package wscmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dantte-lp/gowsc/internal/wsc"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "gowsc"
	subsystem = "enrollee"
)

// Label names for enrollee metrics.
const (
	labelReason    = "reason"
	labelError     = "error"
	labelFromState = "from_state"
	labelToState   = "to_state"
)

// -------------------------------------------------------------------------
// Collector — Prometheus WSC Enrollee Metrics
// -------------------------------------------------------------------------

// Collector holds all enrollee Prometheus metrics and implements
// wsc.MetricsReporter.
//
// Metrics are designed for fleet provisioning monitoring:
//   - Handshake counters track registration attempts and completions.
//   - Drop counters record silently discarded payloads by reason,
//     flagging misbehaving or hostile registrars.
//   - NACK counters record emitted Configuration Errors for alerting
//     on password mismatches and tampered ciphertexts.
//   - State transition counters trace registration progress.
type Collector struct {
	// HandshakesStarted counts registrations that transmitted M1.
	HandshakesStarted prometheus.Counter

	// HandshakesCompleted counts registrations that reached Finished.
	HandshakesCompleted prometheus.Counter

	// PDUsDropped counts silently discarded payloads by reason.
	PDUsDropped *prometheus.CounterVec

	// NACKsSent counts transmitted WSC_NACKs by Configuration Error.
	NACKsSent *prometheus.CounterVec

	// StateTransitions counts session state advances.
	StateTransitions *prometheus.CounterVec
}

// Collector implements wsc.MetricsReporter.
var _ wsc.MetricsReporter = (*Collector)(nil)

// NewCollector creates a Collector with all enrollee metrics registered
// against the provided prometheus.Registerer. If reg is nil,
// prometheus.DefaultRegisterer is used.
//
// All metrics carry the "gowsc_enrollee_" prefix (namespace_subsystem)
// to avoid collisions with other exporters.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.HandshakesStarted,
		c.HandshakesCompleted,
		c.PDUsDropped,
		c.NACKsSent,
		c.StateTransitions,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	return &Collector{
		HandshakesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handshakes_started_total",
			Help:      "Total WSC registrations that transmitted M1.",
		}),

		HandshakesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handshakes_completed_total",
			Help:      "Total WSC registrations that reached the Finished state.",
		}),

		PDUsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pdus_dropped_total",
			Help:      "Total EAP-WSC payloads silently discarded, by reason.",
		}, []string{labelReason}),

		NACKsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "nacks_sent_total",
			Help:      "Total WSC_NACK messages transmitted, by Configuration Error.",
		}, []string{labelError}),

		StateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "state_transitions_total",
			Help:      "Total enrollee session state transitions.",
		}, []string{labelFromState, labelToState}),
	}
}

// -------------------------------------------------------------------------
// wsc.MetricsReporter implementation
// -------------------------------------------------------------------------

// HandshakeStarted increments the started counter. Called when M1 is
// transmitted.
func (c *Collector) HandshakeStarted() {
	c.HandshakesStarted.Inc()
}

// HandshakeCompleted increments the completed counter. Called when
// WSC_Done is transmitted.
func (c *Collector) HandshakeCompleted() {
	c.HandshakesCompleted.Inc()
}

// PDUDropped increments the drop counter for the given reason.
func (c *Collector) PDUDropped(reason string) {
	c.PDUsDropped.WithLabelValues(reason).Inc()
}

// NACKSent increments the NACK counter for the given error code.
func (c *Collector) NACKSent(code wsc.ConfigError) {
	c.NACKsSent.WithLabelValues(code.String()).Inc()
}

// RecordStateTransition increments the transition counter for the given
// state pair.
func (c *Collector) RecordStateTransition(from, to string) {
	c.StateTransitions.WithLabelValues(from, to).Inc()
}
