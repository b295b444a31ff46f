package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.App.Name != "gocrew" {
		t.Errorf("expected app name 'gocrew', got %s", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got %s", cfg.App.Environment)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected log format 'json', got %s", cfg.Log.Format)
	}

	if cfg.Runtime.Executor != "goroutine" {
		t.Errorf("expected executor 'goroutine', got %s", cfg.Runtime.Executor)
	}
	if cfg.Runtime.PoolSize != 8 {
		t.Errorf("expected pool size 8, got %d", cfg.Runtime.PoolSize)
	}

	if cfg.Consumer.DrainPolicy != "retain" {
		t.Errorf("expected drain policy 'retain', got %s", cfg.Consumer.DrainPolicy)
	}

	if cfg.Metrics.Port != 9091 {
		t.Errorf("expected metrics port 9091, got %d", cfg.Metrics.Port)
	}

	if cfg.Tracing.Timeout != 10*time.Second {
		t.Errorf("expected tracing timeout 10s, got %v", cfg.Tracing.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "missing app name",
			mutate:  func(cfg *Config) { cfg.App.Name = "" },
			wantErr: true,
		},
		{
			name:    "invalid environment",
			mutate:  func(cfg *Config) { cfg.App.Environment = "invalid" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.Log.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "invalid executor",
			mutate:  func(cfg *Config) { cfg.Runtime.Executor = "forkbomb" },
			wantErr: true,
		},
		{
			name:    "zero pool size",
			mutate:  func(cfg *Config) { cfg.Runtime.PoolSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid drain policy",
			mutate:  func(cfg *Config) { cfg.Consumer.DrainPolicy = "discard" },
			wantErr: true,
		},
		{
			name:    "negative rate limit",
			mutate:  func(cfg *Config) { cfg.Consumer.RateLimit = -1 },
			wantErr: true,
		},
		{
			name:    "invalid metrics port",
			mutate:  func(cfg *Config) { cfg.Metrics.Port = 99999 },
			wantErr: true,
		},
		{
			name:    "sample rate above one",
			mutate:  func(cfg *Config) { cfg.Tracing.SampleRate = 1.5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "metrics.port", Message: "must be between 1 and 65535", Value: 99999},
		{Field: "log.level", Message: "must be one of [debug info warn error]", Value: "trace"},
	}

	errMsg := errs.Error()
	if errMsg == "" {
		t.Error("expected error message")
	}
	if errMsg == "no validation errors" {
		t.Error("expected error details")
	}
}

func TestValidateWithDetails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App.Name = ""
	cfg.Runtime.PoolSize = 0

	err := ValidateWithDetails(cfg)
	if err == nil {
		t.Fatal("expected validation error details")
	}

	details, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(details) == 0 {
		t.Fatal("expected non-empty validation details")
	}
}

func TestConfig_String(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.String() == "" {
		t.Error("expected non-empty string representation")
	}
}

func TestLoader_Get(t *testing.T) {
	loader := NewLoader()
	_, _ = loader.Load("", nil) // Load defaults

	val := loader.Get("app.name")
	if val == nil {
		t.Error("expected non-nil value for app.name")
	}

	str := loader.GetString("app.name")
	if str != "gocrew" {
		t.Errorf("expected 'gocrew', got '%s'", str)
	}

	port := loader.GetInt("metrics.port")
	if port != 9091 {
		t.Errorf("expected 9091, got %d", port)
	}

	enabled := loader.GetBool("metrics.enabled")
	if !enabled {
		t.Error("expected metrics.enabled to be true")
	}
}

func TestLoader_Set(t *testing.T) {
	loader := NewLoader()
	_, _ = loader.Load("", nil)

	err := loader.Set("app.name", "custom-app")
	if err != nil {
		t.Errorf("unexpected error setting value: %v", err)
	}

	if loader.GetString("app.name") != "custom-app" {
		t.Errorf("expected 'custom-app', got '%s'", loader.GetString("app.name"))
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoadOrDie_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid config file")
		}
	}()

	LoadOrDie("/nonexistent/path/config.yaml", nil)
}

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: yaml-test
  environment: production
log:
  level: debug
  format: text
runtime:
  executor: pool
  pool_size: 32
consumer:
  drain_policy: drop
  rate_limit: 50
metrics:
  port: 9999
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load(configPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Name != "yaml-test" {
		t.Errorf("expected 'yaml-test', got '%s'", cfg.App.Name)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected 'debug', got '%s'", cfg.Log.Level)
	}
	if cfg.Runtime.Executor != "pool" {
		t.Errorf("expected 'pool', got '%s'", cfg.Runtime.Executor)
	}
	if cfg.Runtime.PoolSize != 32 {
		t.Errorf("expected pool size 32, got %d", cfg.Runtime.PoolSize)
	}
	if cfg.Consumer.DrainPolicy != "drop" {
		t.Errorf("expected 'drop', got '%s'", cfg.Consumer.DrainPolicy)
	}
	if cfg.Consumer.RateLimit != 50 {
		t.Errorf("expected rate limit 50, got %v", cfg.Consumer.RateLimit)
	}
	if cfg.Metrics.Port != 9999 {
		t.Errorf("expected 9999, got %d", cfg.Metrics.Port)
	}
}

func TestLoader_LoadJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	jsonContent := `{
		"app": {
			"name": "json-test",
			"environment": "staging"
		},
		"log": {
			"level": "warn",
			"format": "json"
		}
	}`
	if err := os.WriteFile(configPath, []byte(jsonContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load(configPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Name != "json-test" {
		t.Errorf("expected 'json-test', got '%s'", cfg.App.Name)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected 'warn', got '%s'", cfg.Log.Level)
	}
}

func TestLoader_LoadInvalidFile(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("/nonexistent/config.yaml", nil)
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoader_LoadUnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("app = 'test'"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoader()
	_, err := loader.Load(configPath, nil)
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoader_Overrides(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load("", map[string]interface{}{
		"log.level":         "error",
		"runtime.executor":  "pool",
		"runtime.pool_size": 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "error" {
		t.Errorf("expected 'error', got '%s'", cfg.Log.Level)
	}
	if cfg.Runtime.Executor != "pool" {
		t.Errorf("expected 'pool', got '%s'", cfg.Runtime.Executor)
	}
	if cfg.Runtime.PoolSize != 4 {
		t.Errorf("expected 4, got %d", cfg.Runtime.PoolSize)
	}
}

func TestLoader_EnvVars(t *testing.T) {
	if err := os.Setenv("GOCREW_LOG_LEVEL", "error"); err != nil {
		t.Skipf("cannot set environment variable: %v", err)
	}
	defer os.Unsetenv("GOCREW_LOG_LEVEL")

	loader := NewLoader()
	cfg, err := loader.Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "error" {
		t.Errorf("expected 'error' from env, got '%s'", cfg.Log.Level)
	}
}
