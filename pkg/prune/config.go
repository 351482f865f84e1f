package prune

import (
	"fmt"
	"time"
)

const (
	// DefaultBatchLimit is the maximum number of candidates fetched per run.
	DefaultBatchLimit = 200

	// DefaultAgeThreshold is how old an unactivated signup must be to be pruned.
	DefaultAgeThreshold = 14 * 24 * time.Hour
)

// Config contains the per-run prune parameters.
type Config struct {
	// BatchLimit is the maximum number of inactive signups fetched in one run.
	// Values <= 0 fall back to DefaultBatchLimit.
	BatchLimit int

	// AgeThreshold is the minimum age of a signup before it is deleted.
	// Zero selects every inactive signup. Negative values are treated as zero.
	AgeThreshold time.Duration
}

// DefaultConfig returns the default prune configuration.
func DefaultConfig() Config {
	return Config{
		BatchLimit:   DefaultBatchLimit,
		AgeThreshold: DefaultAgeThreshold,
	}
}

// Cutoff returns the latest registration instant that is still old enough.
func (c Config) Cutoff(now time.Time) time.Time {
	return now.Add(-c.normalize().AgeThreshold)
}

// Validate checks the configuration for values a caller most likely did not mean.
func (c Config) Validate() error {
	if c.BatchLimit <= 0 {
		return fmt.Errorf("batch limit must be positive, got %d", c.BatchLimit)
	}
	if c.AgeThreshold < 0 {
		return fmt.Errorf("age threshold must not be negative, got %s", c.AgeThreshold)
	}
	return nil
}

func (c Config) normalize() Config {
	if c.BatchLimit <= 0 {
		c.BatchLimit = DefaultBatchLimit
	}
	if c.AgeThreshold < 0 {
		c.AgeThreshold = 0
	}
	return c
}
