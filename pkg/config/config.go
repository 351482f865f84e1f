package config

import "time"

// Config is the root configuration structure for the signup pruner.
type Config struct {
	// Store selects and configures the database holding the signups table.
	Store StoreConfig `yaml:"store"`

	// Prune contains batch, age and scheduling settings.
	Prune PruneConfig `yaml:"prune"`

	// Triggers selects where the activation hooks are recorded.
	Triggers TriggersConfig `yaml:"triggers"`

	// Server configures the ops HTTP server (health, readiness, metrics).
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging, metrics, tracing and health settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig contains configuration for the signups database.
type StoreConfig struct {
	// Driver is the database driver.
	// Options: "mysql", "postgres" (alias "pgx"), "sqlite3", "sqlite", "memory"
	// Default: "mysql"
	Driver string `yaml:"driver"`

	// DSN is the driver-specific data source name. Required for every
	// driver except "memory".
	DSN string `yaml:"dsn"`

	// Table is the signups table name.
	// Default: "wp_signups"
	Table string `yaml:"table"`

	// MaxOpenConns caps the connection pool.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the number of idle connections kept.
	// Default: 2
	MaxIdleConns int `yaml:"max_idle_conns"`

	// ConnMaxLifetime recycles connections older than this.
	// Default: 30m
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// AutoMigrate creates the signups table on startup when missing.
	// Only valid with the default table name.
	// Default: false
	AutoMigrate bool `yaml:"auto_migrate"`
}

// PruneConfig contains configuration for prune runs.
type PruneConfig struct {
	// BatchLimit is the maximum number of inactive signups fetched per run.
	// Default: 200
	BatchLimit int `yaml:"batch_limit"`

	// AgeThreshold is how old an inactive signup must be before deletion.
	// Accepts "14d" as well as Go durations. Zero selects every inactive
	// signup.
	// Default: 14d
	AgeThreshold Age `yaml:"age_threshold"`

	// Schedule is the cron expression of the recurring trigger.
	// Default: "@daily"
	Schedule string `yaml:"schedule"`

	// RunOnActivate runs one prune immediately after activation.
	// Default: true
	RunOnActivate bool `yaml:"run_on_activate"`

	// Timeout bounds the fetch of a single run.
	// Default: 5m
	Timeout time.Duration `yaml:"timeout"`
}

// TriggersConfig contains configuration for the trigger registry.
type TriggersConfig struct {
	// Backend is where hooks are recorded.
	// Options: "memory", "redis"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// RedisURL is the redis:// or rediss:// URL used by the redis backend.
	RedisURL string `yaml:"redis_url"`

	// KeyPrefix namespaces hook keys in Redis.
	// Default: "signup-pruner:trigger:"
	KeyPrefix string `yaml:"key_prefix"`
}

// ServerConfig contains configuration for the ops HTTP server.
type ServerConfig struct {
	// Enabled controls whether the ops server is started by "run".
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the host:port to listen on.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	Health  HealthConfig  `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line in every record.
	AddSource bool `yaml:"add_source"`

	// RedactPII masks email addresses, credentials and DSN passwords.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// File writes logs to a rotated file instead of stderr.
	File string `yaml:"file"`

	// MaxSizeMB is the rotation size of File.
	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `yaml:"max_age_days"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether prune runs are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: "signup_pruner"
	Namespace string `yaml:"namespace"`

	// Subsystem is inserted between namespace and metric name.
	Subsystem string `yaml:"subsystem"`

	// Path is where the ops server exposes metrics.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// RunDurationBuckets are the histogram buckets, in seconds, for run
	// durations.
	RunDurationBuckets []float64 `yaml:"run_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled turns on the OTLP exporter. A noop tracer is used otherwise.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler selects the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the ratio sampler, between 0 and 1.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the OpenTelemetry service name.
	// Default: "signup-pruner"
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is set from the build version at startup.
	ServiceVersion string `yaml:"-"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// CheckTimeout bounds each readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
