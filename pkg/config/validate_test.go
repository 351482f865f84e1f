package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Store.Driver = "memory"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "oracle" }, "store.driver"},
		{"sql driver without dsn", func(c *Config) { c.Store.Driver = "sqlite" }, "store.dsn"},
		{"pgx alias", func(c *Config) { c.Store.Driver = "pgx"; c.Store.DSN = "postgres://localhost/wp" }, ""},
		{"table injection", func(c *Config) { c.Store.Table = "wp_signups; DROP TABLE wp_users" }, "store.table"},
		{"auto migrate custom table", func(c *Config) { c.Store.Table = "wp_2_signups"; c.Store.AutoMigrate = true }, "store.auto_migrate"},
		{"zero batch", func(c *Config) { c.Prune.BatchLimit = 0 }, "prune.batch_limit"},
		{"negative age", func(c *Config) { c.Prune.AgeThreshold = -1 }, "prune.age_threshold"},
		{"zero age", func(c *Config) { c.Prune.AgeThreshold = 0 }, ""},
		{"bad schedule", func(c *Config) { c.Prune.Schedule = "every day" }, "prune.schedule"},
		{"no schedule", func(c *Config) { c.Prune.Schedule = "" }, ""},
		{"unknown backend", func(c *Config) { c.Triggers.Backend = "etcd" }, "triggers.backend"},
		{"redis without url", func(c *Config) { c.Triggers.Backend = "redis" }, "triggers.redis_url"},
		{"redis bad scheme", func(c *Config) { c.Triggers.Backend = "redis"; c.Triggers.RedisURL = "http://x" }, "triggers.redis_url"},
		{"bad listen address", func(c *Config) { c.Server.ListenAddress = "9464" }, "server.listen_address"},
		{"disabled server ignores address", func(c *Config) { c.Server.Enabled = false; c.Server.ListenAddress = "9464" }, ""},
		{"bad level", func(c *Config) { c.Telemetry.Logging.Level = "loud" }, "telemetry.logging.level"},
		{"metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"sample ratio", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for %q, got %v", tt.wantField, verr)
			}
		})
	}
}

func TestValidationError_CollectsAll(t *testing.T) {
	cfg := validConfig()
	cfg.Prune.BatchLimit = 0
	cfg.Triggers.Backend = "etcd"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(verr.Errors))
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
