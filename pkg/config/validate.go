package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError is a validation failure of one configuration field.
type FieldError struct {
	// Field is the dotted YAML path (e.g. "prune.batch_limit").
	Field string

	// Message describes what is wrong.
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "configuration validation failed"
	case 1:
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

var (
	supportedDrivers = []string{"mysql", "postgres", "pgx", "sqlite3", "sqlite", "memory"}
	supportedLevels  = []string{"debug", "info", "warn", "warning", "error"}
	supportedFormats = []string{"json", "text", "console"}
	supportedSampler = []string{"always", "never", "ratio"}

	tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Validate checks cfg and returns a ValidationError listing every invalid
// field, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validatePrune(&cfg.Prune)...)
	errs = append(errs, validateTriggers(&cfg.Triggers)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	driver := strings.ToLower(cfg.Driver)
	if !contains(supportedDrivers, driver) {
		errs = append(errs, FieldError{
			Field:   "store.driver",
			Message: fmt.Sprintf("unsupported driver %q (valid: %s)", cfg.Driver, strings.Join(supportedDrivers, ", ")),
		})
	}
	if driver != "memory" && cfg.DSN == "" {
		errs = append(errs, FieldError{
			Field:   "store.dsn",
			Message: fmt.Sprintf("dsn is required for driver %q", cfg.Driver),
		})
	}

	if !tableNamePattern.MatchString(cfg.Table) {
		errs = append(errs, FieldError{
			Field:   "store.table",
			Message: "table name may only contain letters, digits and underscores",
		})
	}
	if cfg.AutoMigrate && cfg.Table != DefaultStoreTable {
		errs = append(errs, FieldError{
			Field:   "store.auto_migrate",
			Message: fmt.Sprintf("migrations create %q; auto_migrate cannot be used with table %q", DefaultStoreTable, cfg.Table),
		})
	}

	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{Field: "store.max_open_conns", Message: "must be non-negative"})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{Field: "store.max_idle_conns", Message: "must be non-negative"})
	}
	if cfg.ConnMaxLifetime < 0 {
		errs = append(errs, FieldError{Field: "store.conn_max_lifetime", Message: "must be non-negative"})
	}

	return errs
}

func validatePrune(cfg *PruneConfig) []FieldError {
	var errs []FieldError

	if cfg.BatchLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "prune.batch_limit",
			Message: fmt.Sprintf("batch limit must be positive, got %d", cfg.BatchLimit),
		})
	}
	if cfg.AgeThreshold < 0 {
		errs = append(errs, FieldError{
			Field:   "prune.age_threshold",
			Message: "age threshold must not be negative",
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "prune.timeout", Message: "must be non-negative"})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "prune.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

func validateTriggers(cfg *TriggersConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			errs = append(errs, FieldError{
				Field:   "triggers.redis_url",
				Message: "redis_url is required for the redis backend",
			})
			break
		}
		u, err := url.Parse(cfg.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			errs = append(errs, FieldError{
				Field:   "triggers.redis_url",
				Message: "redis_url must be a redis:// or rediss:// URL",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "triggers.backend",
			Message: fmt.Sprintf("unsupported backend %q (valid: memory, redis)", cfg.Backend),
		})
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled {
		if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "server.listen_address",
				Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
			})
		}
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "must be non-negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "must be non-negative"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "must be non-negative"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !contains(supportedLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q", cfg.Logging.Level),
		})
	}
	if !contains(supportedFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q", cfg.Logging.Format),
		})
	}
	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging",
			Message: "rotation limits must be non-negative",
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	if !contains(supportedSampler, cfg.Tracing.Sampler) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("unknown sampler %q (valid: always, never, ratio)", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.Health.CheckTimeout < 0 {
		errs = append(errs, FieldError{Field: "telemetry.health.check_timeout", Message: "must be non-negative"})
	}

	return errs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
