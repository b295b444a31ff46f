// Package metrics provides Prometheus instrumentation for gocrew.
//
// The Manager owns its own registry and implements the recorder
// interfaces of pkg/agent and pkg/consumer, so it can be handed to both
// via their WithMetrics options. A disabled Manager is a no-op.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gocrew/gocrew/pkg/logger"
)

// Manager manages all Prometheus metrics for gocrew.
type Manager struct {
	registry *prometheus.Registry
	enabled  bool

	// Agent metrics
	agentsStarted   *prometheus.CounterVec
	agentsActive    prometheus.Gauge
	agentsPanicked  *prometheus.CounterVec
	agentRunSeconds *prometheus.HistogramVec

	// Consumer metrics
	messagesConsumed  *prometheus.CounterVec
	messagesDrained   *prometheus.CounterVec
	messagesAbandoned *prometheus.CounterVec
	isolations        *prometheus.CounterVec
}

// Config holds metrics configuration.
type Config struct {
	Enabled bool
	Port    int
	Path    string

	AgentRunBuckets []float64
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Port:            9091,
		Path:            "/metrics",
		AgentRunBuckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 1800},
	}
}

// NewManager creates a new metrics manager.
func NewManager(cfg Config) *Manager {
	if !cfg.Enabled {
		return &Manager{enabled: false}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Manager{
		registry: registry,
		enabled:  true,
	}
	m.initAgentMetrics(cfg)
	m.initConsumerMetrics()

	return m
}

// Enabled returns whether metrics collection is enabled.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Manager) Handler() http.Handler {
	if !m.enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server on the configured port and
// shuts it down when the context is cancelled.
func (m *Manager) StartServer(ctx context.Context, port int, path string) error {
	if !m.enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	logger.Info("metrics server started", "port", port, "path", path)
	return nil
}
