package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gocrew/gocrew/config"
	"github.com/gocrew/gocrew/pkg/agent"
	"github.com/gocrew/gocrew/pkg/cancel"
	"github.com/gocrew/gocrew/pkg/channel"
	"github.com/gocrew/gocrew/pkg/consumer"
	"github.com/gocrew/gocrew/pkg/logger"
	"github.com/gocrew/gocrew/pkg/metrics"
	"github.com/gocrew/gocrew/pkg/telemetry/tracing"
	"github.com/gocrew/gocrew/pkg/version"
)

var (
	configPath  = flag.String("config", "", "Path to configuration file")
	versionFlag = flag.Bool("version", false, "Print version information")
	helpFlag    = flag.Bool("help", false, "Print help information")

	// CLI overrides
	appName     = flag.String("app-name", "", "Override app name")
	logLevel    = flag.String("log-level", "", "Override log level")
	drainPolicy = flag.String("drain-policy", "", "Override consumer drain policy (retain, drop)")
	debugMode   = flag.Bool("debug", false, "Enable debug mode")
)

func main() {
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	overrides := buildOverrides()

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration:\n%s\n", err)
		os.Exit(1)
	}

	// Initialize logger with configuration
	logCfg := &logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if cfg.App.Debug || *debugMode {
		logCfg.Level = logger.DebugLevel
	}
	log := logger.New(logCfg)
	logger.SetGlobal(log)

	log.Info("Starting gocrew",
		"version", version.Version,
		"buildTime", version.BuildTime,
		"gitCommit", version.GitCommit,
		"app", cfg.App.Name,
		"environment", cfg.App.Environment,
	)
	log.Debug("Configuration loaded", "config", cfg.String())

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize tracing
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.App.Name, version.Version)
	if err != nil {
		log.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Initialize metrics manager
	metricsCfg := metrics.DefaultConfig()
	metricsCfg.Enabled = cfg.Metrics.Enabled
	metricsCfg.Port = cfg.Metrics.Port
	metricsCfg.Path = cfg.Metrics.Path
	metricsManager := metrics.NewManager(metricsCfg)

	if metricsManager.Enabled() {
		go func() {
			log.Info("Starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
			if err := metricsManager.StartServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				log.Error("Metrics server error", "error", err)
			}
		}()
	}

	// Watch the config file and re-apply hot-reloadable settings
	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath, config.NewLoader())
		if err != nil {
			log.Warn("Config watcher unavailable", "error", err)
		} else {
			hot := config.ExtractHotReloadable(cfg)
			watcher.OnChange(func(next *config.Config) {
				nextHot := config.ExtractHotReloadable(next)
				if !hot.Changed(nextHot) {
					return
				}
				log.Info("Applying reloaded configuration", "log_level", nextHot.LogLevel)
				logger.SetLevel(logger.ParseLevel(nextHot.LogLevel))
				hot = nextHot
			})
			go func() {
				if err := watcher.Watch(ctx); err != nil && err != context.Canceled {
					log.Warn("Config watcher stopped", "error", err)
				}
			}()
			defer watcher.Stop()
		}
	}

	// Select the agent executor
	var agentOpts []agent.Option
	if cfg.Runtime.Executor == "pool" {
		pool := agent.NewPoolExecutor(cfg.Runtime.PoolSize)
		pool.Start()
		defer pool.Stop()
		agentOpts = append(agentOpts, agent.WithExecutor(pool))
		log.Info("Using pooled executor", "workers", cfg.Runtime.PoolSize)
	}
	agentOpts = append(agentOpts, agent.WithLogger(log), agent.WithMetrics(metricsManager))

	drain := consumer.DrainRetain
	if p, err := consumer.ParseDrainPolicy(cfg.Consumer.DrainPolicy); err == nil {
		drain = p
	}

	// Heartbeat agent: runs until the process shuts down.
	heartbeat := agent.New("heartbeat", func(token cancel.Token) {
		ticks := 0
		for {
			select {
			case <-token.Done():
				log.Info("Heartbeat stopping", "ticks", ticks)
				return
			case <-time.After(5 * time.Second):
				ticks++
				log.Debug("Heartbeat", "ticks", ticks)
			}
		}
	}, agentOpts...)
	heartbeatSup := agent.Supervise(heartbeat,
		agent.WithAutoStart(),
		agent.WithAutoStopAndWait(),
	)
	defer heartbeatSup.Close()

	// Demo consumer: accumulates ints pushed by a feeder agent.
	intCh := channel.NewUnbounded[int]()
	sum := 0
	sumConsumer := consumer.New[int]("sum", intCh,
		consumer.HandlerFunc[int](func(v int) error {
			sum += v
			log.Debug("Consumed", "value", v, "sum", sum)
			return nil
		}),
		consumer.WithDrainPolicy[int](drain),
		consumer.WithRateLimit[int](cfg.Consumer.RateLimit),
		consumer.WithLogger[int](log),
		consumer.WithMetrics[int](metricsManager),
		consumer.WithAgentOptions[int](agentOpts...),
	)
	sumConsumer.Start()
	defer sumConsumer.StopAndWait()

	feeder := agent.New("feeder", func(token cancel.Token) {
		for i := 0; !token.IsCancellationRequested(); i++ {
			intCh.Send(i)
			select {
			case <-token.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}, agentOpts...)
	feederSup := agent.Supervise(feeder,
		agent.WithAutoStart(),
		agent.WithAutoStopAndWait(),
	)
	defer feederSup.Close()

	log.Info("gocrew is running", "metrics_port", cfg.Metrics.Port)
	log.Info("Press Ctrl+C to stop")

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", "signal", sig)
	case <-ctx.Done():
		log.Info("Context cancelled")
	}

	// Graceful shutdown: the deferred supervisors stop and wait the
	// agents, the deferred pool drains scheduled work.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Info("Flushing traces")
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Error shutting down tracing", "error", err)
	}

	log.Info("gocrew stopped gracefully")
}

func buildOverrides() map[string]interface{} {
	overrides := make(map[string]interface{})

	if *appName != "" {
		overrides["app.name"] = *appName
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}
	if *drainPolicy != "" {
		overrides["consumer.drain_policy"] = *drainPolicy
	}
	if *debugMode {
		overrides["app.debug"] = true
	}

	return overrides
}

func printVersion() {
	fmt.Printf("gocrew - Agent Coordination Toolkit\n")
	fmt.Printf("Version:    %s\n", version.Version)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
	fmt.Printf("Go Version: %s\n", version.GoVersion)
}

func printHelp() {
	fmt.Printf("gocrew - In-process agent coordination toolkit\n\n")
	fmt.Printf("Usage: gocrew [options]\n\n")
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  gocrew                                    # Run with default config\n")
	fmt.Printf("  gocrew -config config.yaml                # Use specific config file\n")
	fmt.Printf("  gocrew -log-level debug                   # Override specific options\n")
	fmt.Printf("  gocrew -version                           # Print version info\n")
}
