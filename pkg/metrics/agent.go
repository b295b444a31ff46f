package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// initAgentMetrics initializes agent lifecycle metrics.
func (m *Manager) initAgentMetrics(cfg Config) {
	m.agentsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocrew_agents_started_total",
			Help: "Total number of agent bodies started",
		},
		[]string{"agent"},
	)

	m.agentsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gocrew_agents_active",
			Help: "Number of agent bodies currently executing",
		},
	)

	m.agentsPanicked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocrew_agent_panics_total",
			Help: "Total number of agent bodies ended by a panic",
		},
		[]string{"agent"},
	)

	m.agentRunSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gocrew_agent_run_seconds",
			Help:    "Agent body execution duration in seconds",
			Buckets: cfg.AgentRunBuckets,
		},
		[]string{"agent"},
	)

	m.registry.MustRegister(m.agentsStarted)
	m.registry.MustRegister(m.agentsActive)
	m.registry.MustRegister(m.agentsPanicked)
	m.registry.MustRegister(m.agentRunSeconds)
}

// AgentStarted implements agent.MetricsRecorder.
func (m *Manager) AgentStarted(name string) {
	if !m.enabled {
		return
	}
	m.agentsStarted.WithLabelValues(name).Inc()
	m.agentsActive.Inc()
}

// AgentCompleted implements agent.MetricsRecorder.
func (m *Manager) AgentCompleted(name string, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.agentsActive.Dec()
	m.agentRunSeconds.WithLabelValues(name).Observe(duration.Seconds())
}

// AgentPanicked implements agent.MetricsRecorder.
func (m *Manager) AgentPanicked(name string) {
	if !m.enabled {
		return
	}
	m.agentsPanicked.WithLabelValues(name).Inc()
}
