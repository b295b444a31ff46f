package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "gocrew",
			Version:     "dev",
			Environment: "development",
			Debug:       false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Runtime: RuntimeConfig{
			Executor: "goroutine",
			PoolSize: 8,
		},
		Consumer: ConsumerConfig{
			DrainPolicy:    "retain",
			RateLimit:      0,
			ReceiveTimeout: 0,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9091,
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "otlp",
			Endpoint:   "localhost:4317",
			Timeout:    10 * time.Second,
			Sampler:    "ratio",
			SampleRate: 0.1,
		},
	}
}
