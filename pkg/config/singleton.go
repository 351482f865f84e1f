package config

import (
	"fmt"
	"sync"
)

var (
	globalConfig *Config
	globalPath   string
	configMutex  sync.RWMutex
)

// Initialize loads the configuration at path, with environment overrides,
// and installs it as the process-wide configuration. An empty path loads
// the defaults.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}

	configMutex.Lock()
	globalConfig = cfg
	globalPath = path
	configMutex.Unlock()
	return nil
}

// GetConfig returns the process-wide configuration, or nil before
// Initialize or SetConfig.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration. Intended for tests and
// for commands that build a configuration from flags.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// Path returns the file passed to Initialize.
func Path() string {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalPath
}

// ReloadConfig reloads the file passed to Initialize. On failure the current
// configuration is kept.
func ReloadConfig() error {
	path := Path()

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()
	return nil
}

// MustGetConfig is GetConfig that panics when nothing is installed.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
