// Package config provides configuration management for the signup pruner.
//
// Configuration is read from a YAML file, overlaid on the built-in defaults,
// and then overridden by environment variables:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("signup-pruner.yaml")
//
// # Precedence
//
//  1. Default values (DefaultConfig)
//  2. Values from the YAML file
//  3. Environment variables named SIGNUP_PRUNER_SECTION_FIELD
//  4. Validation (fails fast, reporting every invalid field)
//
// Defaults are seeded before the file is decoded, so explicit zero values
// in the file survive. "prune.age_threshold: 0s" selects every inactive
// signup; "prune.run_on_activate: false" suppresses the immediate run.
//
// Ages accept Go durations ("336h") and whole or fractional days ("14d").
//
// # Singleton and reload
//
// The run command calls Initialize once and reads GetConfig on every
// scheduler tick. A Watcher reloads the file when it changes on disk;
// failed reloads keep the previous configuration.
package config
