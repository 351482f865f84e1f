package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"mercator-hq/signup-pruner/pkg/cli"
	"mercator-hq/signup-pruner/pkg/config"
	"mercator-hq/signup-pruner/pkg/prune"
	"mercator-hq/signup-pruner/pkg/server"
	"mercator-hq/signup-pruner/pkg/telemetry/health"
	"mercator-hq/signup-pruner/pkg/telemetry/metrics"
	"mercator-hq/signup-pruner/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	noServer      bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Activate the prune triggers and run the scheduler",
	Long: `Activate the prune triggers and run the scheduler until interrupted.

On startup the signups table is checked. If it does not exist (a
single-site install) nothing is scheduled and the command exits.
Otherwise the one-shot and recurring triggers are registered unless the
recurring trigger already is, and the scheduler fires them.

Examples:
  # Run with a config file, reloading it on change
  signup-pruner run --config /etc/signup-pruner.yaml

  # Override the ops server address
  signup-pruner run --listen 0.0.0.0:9464`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override ops server listen address")
	runCmd.Flags().BoolVar(&runFlags.noServer, "no-server", false, "do not start the ops server")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return err
	}
	cfg := config.GetConfig()
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.noServer {
		cfg.Server.Enabled = false
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg.Telemetry.Tracing.ServiceVersion = Version
	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer store.Close()

	required, err := prune.CheckRequired(ctx, store)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	if !required {
		slog.Info("Signups table not found, nothing to prune on a single-site install",
			"table", cfg.Store.Table,
		)
		return nil
	}

	registry, err := openRegistry(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer registry.Close()

	lifecycle := prune.NewLifecycle(registry, nil, cfg.Prune.RunOnActivate)
	if _, err := lifecycle.Activate(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	pruner := prune.NewPruner(store, prune.Options{
		Logger:  logger.Logger,
		Metrics: collector,
		Tracer:  tracer,
	})

	// Each run reads the live configuration so reloads take effect on
	// the next tick.
	source := func() prune.Config {
		if current := config.GetConfig(); current != nil {
			return pruneConfig(current)
		}
		return pruneConfig(cfg)
	}
	scheduler := prune.NewScheduler(pruner, registry, source, prune.SchedulerConfig{
		Schedule: cfg.Prune.Schedule,
		Timeout:  cfg.Prune.Timeout,
	})

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.SetObserver(collector.UpdateComponentHealth)
	checker.RegisterCheck("store", store.Ping)
	checker.RegisterCheck("scheduler", func(context.Context) error {
		if !scheduler.IsRunning() {
			return errors.New("scheduler is not running")
		}
		return nil
	})
	if pinger, ok := registry.(interface{ Ping(context.Context) error }); ok {
		checker.RegisterCheck("triggers", pinger.Ping)
	}

	var g run.Group
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			if err := scheduler.Start(ctx); err != nil {
				return err
			}
			if next := scheduler.NextRun(); next != nil {
				slog.Info("Next scheduled prune", "at", next.Format(time.RFC3339))
			}
			<-ctx.Done()
			scheduler.Stop()
			return nil
		}, func(error) {
			cancel()
		})
	}
	if cfg.Server.Enabled {
		var metricsHandler = collector.Handler()
		if !cfg.Telemetry.Metrics.Enabled {
			metricsHandler = nil
		}
		srv := server.NewServer(&cfg.Server, server.Routes(checker, metricsHandler, cfg.Telemetry.Metrics.Path, server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		}))

		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			return srv.Start(ctx)
		}, func(error) {
			cancel()
		})
	}
	if cfgFile != "" {
		watcher := config.NewWatcher(cfgFile, 0, nil, nil)

		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			return watcher.Run(ctx)
		}, func(error) {
			cancel()
		})
	}
	{
		sigCtx, stop := cli.SignalContext(ctx)
		g.Add(func() error {
			<-sigCtx.Done()
			slog.Info("Shutting down")
			return nil
		}, func(error) {
			stop()
		})
	}

	if err := g.Run(); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}
