// Package metrics exposes Prometheus instrumentation for the sales agent.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ConversationMetrics tracks the chat pipeline and payment orchestration.
type ConversationMetrics struct {
	inboundTurns     prometheus.Counter
	stateTransitions *prometheus.CounterVec
	paymentRequests  *prometheus.CounterVec
	leadsArchived    *prometheus.CounterVec
	webhookDuration  *prometheus.HistogramVec
}

// NewConversationMetrics registers the collectors on reg and returns them.
func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		inboundTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salesagent",
			Name:      "inbound_turns_total",
			Help:      "Customer messages processed by the conversation engine.",
		}),
		stateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesagent",
			Name:      "order_state_transitions_total",
			Help:      "Order state transitions by source and destination state.",
		}, []string{"from", "to"}),
		paymentRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesagent",
			Name:      "payment_requests_total",
			Help:      "Payment initialization attempts by outcome.",
		}, []string{"status"}),
		leadsArchived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesagent",
			Name:      "leads_archived_total",
			Help:      "Lead records written to the encrypted archive by sink.",
		}, []string{"sink"}),
		webhookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salesagent",
			Name:      "webhook_duration_seconds",
			Help:      "Webhook handling latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	reg.MustRegister(
		m.inboundTurns,
		m.stateTransitions,
		m.paymentRequests,
		m.leadsArchived,
		m.webhookDuration,
	)
	return m
}

func (m *ConversationMetrics) IncInboundTurn() {
	if m == nil {
		return
	}
	m.inboundTurns.Inc()
}

func (m *ConversationMetrics) IncStateTransition(from, to string) {
	if m == nil {
		return
	}
	m.stateTransitions.WithLabelValues(from, to).Inc()
}

func (m *ConversationMetrics) IncPaymentRequest(status string) {
	if m == nil {
		return
	}
	m.paymentRequests.WithLabelValues(status).Inc()
}

func (m *ConversationMetrics) IncLeadArchived(sink string) {
	if m == nil {
		return
	}
	m.leadsArchived.WithLabelValues(sink).Inc()
}

func (m *ConversationMetrics) ObserveWebhookDuration(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookDuration.WithLabelValues(endpoint).Observe(seconds)
}
