package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// initConsumerMetrics initializes consume-loop metrics.
func (m *Manager) initConsumerMetrics() {
	m.messagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocrew_consumer_messages_total",
			Help: "Total number of messages delivered to consumer handlers",
		},
		[]string{"consumer"},
	)

	m.messagesDrained = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocrew_consumer_drained_total",
			Help: "Total number of messages delivered during the drain phase",
		},
		[]string{"consumer"},
	)

	m.messagesAbandoned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocrew_consumer_abandoned_total",
			Help: "Total number of queued messages abandoned undelivered",
		},
		[]string{"consumer"},
	)

	m.isolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocrew_consumer_isolations_total",
			Help: "Total number of channels isolated to a fault sink, by reason",
		},
		[]string{"consumer", "reason"},
	)

	m.registry.MustRegister(m.messagesConsumed)
	m.registry.MustRegister(m.messagesDrained)
	m.registry.MustRegister(m.messagesAbandoned)
	m.registry.MustRegister(m.isolations)
}

// MessageConsumed implements consumer.MetricsRecorder.
func (m *Manager) MessageConsumed(consumer string) {
	if !m.enabled {
		return
	}
	m.messagesConsumed.WithLabelValues(consumer).Inc()
}

// MessagesDrained implements consumer.MetricsRecorder.
func (m *Manager) MessagesDrained(consumer string, n int) {
	if !m.enabled {
		return
	}
	m.messagesDrained.WithLabelValues(consumer).Add(float64(n))
}

// MessagesAbandoned implements consumer.MetricsRecorder.
func (m *Manager) MessagesAbandoned(consumer string, n int) {
	if !m.enabled {
		return
	}
	m.messagesAbandoned.WithLabelValues(consumer).Add(float64(n))
}

// ConsumerIsolated implements consumer.MetricsRecorder.
func (m *Manager) ConsumerIsolated(consumer string, reason string) {
	if !m.enabled {
		return
	}
	m.isolations.WithLabelValues(consumer, reason).Inc()
}
