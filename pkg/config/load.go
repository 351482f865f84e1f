package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SIGNUP_PRUNER_"

// LoadConfig reads the YAML file at path over DefaultConfig, applies
// defaults and validates the result. Environment variables are ignored.
func LoadConfig(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides is LoadConfig with SIGNUP_PRUNER_SECTION_FIELD
// environment variables applied before validation. An empty path loads the
// defaults only.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig and applies defaults. It does not
// validate.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies SIGNUP_PRUNER_* variables. Malformed values are
// reported instead of silently ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	str := func(name string, dst *string) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			*dst = val
		}
	}
	integer := func(name string, dst *int) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, envError(name, val, "an integer"))
				return
			}
			*dst = i
		}
	}
	boolean := func(name string, dst *bool) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, envError(name, val, "a boolean"))
				return
			}
			*dst = b
		}
	}
	duration := func(name string, dst *time.Duration) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, envError(name, val, "a duration"))
				return
			}
			*dst = d
		}
	}

	// Store
	str("STORE_DRIVER", &cfg.Store.Driver)
	str("STORE_DSN", &cfg.Store.DSN)
	str("STORE_TABLE", &cfg.Store.Table)
	integer("STORE_MAX_OPEN_CONNS", &cfg.Store.MaxOpenConns)
	integer("STORE_MAX_IDLE_CONNS", &cfg.Store.MaxIdleConns)
	duration("STORE_CONN_MAX_LIFETIME", &cfg.Store.ConnMaxLifetime)
	boolean("STORE_AUTO_MIGRATE", &cfg.Store.AutoMigrate)

	// Prune
	integer("PRUNE_BATCH_LIMIT", &cfg.Prune.BatchLimit)
	if val, ok := os.LookupEnv(EnvPrefix + "PRUNE_AGE_THRESHOLD"); ok && val != "" {
		d, err := ParseAge(val)
		if err != nil {
			errs = append(errs, envError("PRUNE_AGE_THRESHOLD", val, "an age such as 14d or 336h"))
		} else {
			cfg.Prune.AgeThreshold = Age(d)
		}
	}
	str("PRUNE_SCHEDULE", &cfg.Prune.Schedule)
	boolean("PRUNE_RUN_ON_ACTIVATE", &cfg.Prune.RunOnActivate)
	duration("PRUNE_TIMEOUT", &cfg.Prune.Timeout)

	// Triggers
	str("TRIGGERS_BACKEND", &cfg.Triggers.Backend)
	str("TRIGGERS_REDIS_URL", &cfg.Triggers.RedisURL)
	str("TRIGGERS_KEY_PREFIX", &cfg.Triggers.KeyPrefix)

	// Server
	boolean("SERVER_ENABLED", &cfg.Server.Enabled)
	str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)

	// Telemetry
	str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	str("TELEMETRY_LOGGING_FILE", &cfg.Telemetry.Logging.File)
	boolean("TELEMETRY_LOGGING_REDACT_PII", &cfg.Telemetry.Logging.RedactPII)
	boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	boolean("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	if val, ok := os.LookupEnv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); ok && val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			errs = append(errs, envError("TELEMETRY_TRACING_SAMPLE_RATIO", val, "a number"))
		} else {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func envError(name, val, want string) FieldError {
	return FieldError{
		Field:   EnvPrefix + name,
		Message: fmt.Sprintf("%q is not %s", val, want),
	}
}

// EnvName returns the environment variable overriding a dotted field path,
// e.g. "prune.batch_limit" becomes SIGNUP_PRUNER_PRUNE_BATCH_LIMIT.
func EnvName(field string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
}
