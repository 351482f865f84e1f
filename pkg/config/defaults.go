package config

import "time"

// Default values for configuration fields.
const (
	// Store defaults
	DefaultStoreDriver     = "mysql"
	DefaultStoreTable      = "wp_signups"
	DefaultMaxOpenConns    = 4
	DefaultMaxIdleConns    = 2
	DefaultConnMaxLifetime = 30 * time.Minute

	// Prune defaults
	DefaultBatchLimit    = 200
	DefaultAgeThreshold  = 14 * 24 * time.Hour
	DefaultSchedule      = "@daily"
	DefaultRunOnActivate = true
	DefaultPruneTimeout  = 5 * time.Minute

	// Trigger defaults
	DefaultTriggersBackend = "memory"
	DefaultTriggersPrefix  = "signup-pruner:trigger:"

	// Server defaults
	DefaultServerEnabled   = true
	DefaultListenAddress   = "127.0.0.1:9464"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// Telemetry defaults
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultLogRedactPII       = true
	DefaultLogMaxSizeMB       = 100
	DefaultMetricsEnabled     = true
	DefaultMetricsNamespace   = "signup_pruner"
	DefaultMetricsPath        = "/metrics"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingTimeout     = 10 * time.Second
	DefaultServiceName        = "signup-pruner"
	DefaultHealthCheckTimeout = 5 * time.Second
)

// DefaultConfig returns a configuration with every default applied. Files
// are decoded on top of it.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:          DefaultStoreDriver,
			Table:           DefaultStoreTable,
			MaxOpenConns:    DefaultMaxOpenConns,
			MaxIdleConns:    DefaultMaxIdleConns,
			ConnMaxLifetime: DefaultConnMaxLifetime,
		},
		Prune: PruneConfig{
			BatchLimit:    DefaultBatchLimit,
			AgeThreshold:  Age(DefaultAgeThreshold),
			Schedule:      DefaultSchedule,
			RunOnActivate: DefaultRunOnActivate,
			Timeout:       DefaultPruneTimeout,
		},
		Triggers: TriggersConfig{
			Backend:   DefaultTriggersBackend,
			KeyPrefix: DefaultTriggersPrefix,
		},
		Server: ServerConfig{
			Enabled:         DefaultServerEnabled,
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:     DefaultLogLevel,
				Format:    DefaultLogFormat,
				RedactPII: DefaultLogRedactPII,
				MaxSizeMB: DefaultLogMaxSizeMB,
			},
			Metrics: MetricsConfig{
				Enabled:   DefaultMetricsEnabled,
				Namespace: DefaultMetricsNamespace,
				Path:      DefaultMetricsPath,
			},
			Tracing: TracingConfig{
				Sampler:     DefaultTracingSampler,
				SampleRatio: DefaultTracingSampleRatio,
				Timeout:     DefaultTracingTimeout,
				ServiceName: DefaultServiceName,
			},
			Health: HealthConfig{
				CheckTimeout: DefaultHealthCheckTimeout,
			},
		},
	}
}

// ApplyDefaults fills fields a file blanked out where an empty value has
// no useful meaning. Zero ages and false booleans are left alone.
func ApplyDefaults(cfg *Config) {
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.Table == "" {
		cfg.Store.Table = DefaultStoreTable
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.Store.ConnMaxLifetime == 0 {
		cfg.Store.ConnMaxLifetime = DefaultConnMaxLifetime
	}

	if cfg.Prune.BatchLimit == 0 {
		cfg.Prune.BatchLimit = DefaultBatchLimit
	}
	if cfg.Prune.Timeout == 0 {
		cfg.Prune.Timeout = DefaultPruneTimeout
	}

	if cfg.Triggers.Backend == "" {
		cfg.Triggers.Backend = DefaultTriggersBackend
	}
	if cfg.Triggers.KeyPrefix == "" {
		cfg.Triggers.KeyPrefix = DefaultTriggersPrefix
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultServiceName
	}

	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
