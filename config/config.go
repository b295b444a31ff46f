// Package config provides configuration management for gocrew.
package config

import (
	"fmt"
	"time"
)

// Config is the global configuration for gocrew.
type Config struct {
	// App is the application configuration.
	App AppConfig `mapstructure:"app" validate:"required"`

	// Log is the logging configuration.
	Log LogConfig `mapstructure:"log" validate:"required"`

	// Runtime is the agent runtime configuration.
	Runtime RuntimeConfig `mapstructure:"runtime"`

	// Consumer holds defaults for consume loops.
	Consumer ConsumerConfig `mapstructure:"consumer"`

	// Metrics is the observability configuration.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Tracing is the tracing exporter configuration.
	Tracing TracingConfig `mapstructure:"tracing"`
}

// AppConfig holds application metadata and settings.
type AppConfig struct {
	// Name is the application name.
	Name string `mapstructure:"name" validate:"required"`

	// Version is the application version.
	Version string `mapstructure:"version"`

	// Environment is the runtime environment (development, staging, production).
	Environment string `mapstructure:"environment" validate:"oneof=development staging production"`

	// Debug enables debug mode with verbose logging.
	Debug bool `mapstructure:"debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level to emit (debug, info, warn, error).
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error"`

	// Format is the output format (json, text).
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// Output is the destination: stdout, stderr, or a file path.
	Output string `mapstructure:"output"`
}

// RuntimeConfig holds the agent executor configuration.
type RuntimeConfig struct {
	// Executor selects how agent bodies are scheduled: "goroutine"
	// runs each body on its own goroutine, "pool" uses a fixed pool.
	Executor string `mapstructure:"executor" validate:"oneof=goroutine pool"`

	// PoolSize is the number of workers when Executor is "pool". Agent
	// bodies occupy a worker for their whole lifetime, so this bounds
	// the number of concurrently running agents.
	PoolSize int `mapstructure:"pool_size" validate:"min=1"`
}

// ConsumerConfig holds defaults applied to consume loops.
type ConsumerConfig struct {
	// DrainPolicy selects what happens to queued messages on stop:
	// "retain" delivers them all, "drop" abandons them.
	DrainPolicy string `mapstructure:"drain_policy" validate:"oneof=retain drop"`

	// RateLimit caps handler invocations per second (0 = unlimited).
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`

	// ReceiveTimeout bounds a single blocking receive in callers that
	// opt into bounded waits (0 = wait indefinitely).
	ReceiveTimeout time.Duration `mapstructure:"receive_timeout" validate:"min=0"`
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and the HTTP endpoint.
	Enabled bool `mapstructure:"enabled"`

	// Port is the metrics HTTP port.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// Path is the metrics HTTP path.
	Path string `mapstructure:"path"`
}

// TracingConfig holds tracing exporter settings.
type TracingConfig struct {
	// Enabled enables trace export.
	Enabled bool `mapstructure:"enabled"`

	// Exporter is the exporter kind; only "otlp" is supported.
	Exporter string `mapstructure:"exporter"`

	// Endpoint is the OTLP/gRPC collector endpoint.
	Endpoint string `mapstructure:"endpoint"`

	// Timeout bounds a single export attempt.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`

	// Headers are attached to every export request.
	Headers map[string]string `mapstructure:"headers"`

	// Sampler selects the sampling strategy: always_on, always_off, or
	// ratio (uses SampleRate).
	Sampler string `mapstructure:"sampler"`

	// SampleRate is the fraction of traces sampled in ratio mode.
	SampleRate float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

// Validate performs validation on the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// String returns a human-readable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{App: %s/%s (%s), Log: %s/%s, Runtime: %s(%d), Consumer: %s, Metrics: %v:%d, Tracing: %v}",
		c.App.Name, c.App.Version, c.App.Environment,
		c.Log.Level, c.Log.Format,
		c.Runtime.Executor, c.Runtime.PoolSize,
		c.Consumer.DrainPolicy,
		c.Metrics.Enabled, c.Metrics.Port,
		c.Tracing.Enabled,
	)
}
