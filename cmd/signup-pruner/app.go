package main

import (
	"context"
	"fmt"
	"os"

	"mercator-hq/signup-pruner/pkg/config"
	"mercator-hq/signup-pruner/pkg/prune"
	"mercator-hq/signup-pruner/pkg/signup"
	"mercator-hq/signup-pruner/pkg/signup/storage"
	"mercator-hq/signup-pruner/pkg/telemetry/logging"
	"mercator-hq/signup-pruner/pkg/triggers"
)

// loadConfig loads the --config file with environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default.
func setupLogging(cfg *config.Config) (*logging.Logger, error) {
	lc := cfg.Telemetry.Logging
	level := lc.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:      level,
		Format:     lc.Format,
		AddSource:  lc.AddSource,
		RedactPII:  lc.RedactPII,
		File:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
		Writer:     os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	logger.SetDefault()
	return logger, nil
}

// openStore opens the configured signups store, running migrations first
// when auto_migrate is set.
func openStore(ctx context.Context, cfg *config.Config) (signup.Store, error) {
	if cfg.Store.Driver == "memory" {
		return storage.NewMemoryStorage(), nil
	}

	store, err := openSQLStore(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Store.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

func openSQLStore(cfg *config.Config) (*storage.SQLStorage, error) {
	return storage.NewSQLStorage(&storage.SQLConfig{
		Driver:          cfg.Store.Driver,
		DSN:             cfg.Store.DSN,
		Table:           cfg.Store.Table,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
	})
}

// openRegistry opens the configured trigger registry.
func openRegistry(cfg *config.Config) (triggers.Registry, error) {
	switch cfg.Triggers.Backend {
	case "redis":
		return triggers.NewRedisRegistry(cfg.Triggers.RedisURL, cfg.Triggers.KeyPrefix)
	default:
		return triggers.NewMemoryRegistry(), nil
	}
}

// pruneConfig extracts the per-run parameters.
func pruneConfig(cfg *config.Config) prune.Config {
	return prune.Config{
		BatchLimit:   cfg.Prune.BatchLimit,
		AgeThreshold: cfg.Prune.AgeThreshold.Duration(),
	}
}
