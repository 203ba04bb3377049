// Package config provides unified configuration loading for conhist.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConhistConfig contains all conhist configuration settings.
type ConhistConfig struct {
	// Simulate contains defaults for simulation runs.
	Simulate SimulateConfig `json:"simulate" yaml:"simulate"`

	// Store contains settings for the run ledger.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulateConfig holds default run settings; an input deck's own
// directives take precedence.
type SimulateConfig struct {
	// Trials is the default trial count when neither the deck nor the
	// command line sets one.
	Trials int `json:"trials" yaml:"trials"`

	// Seed is the default random seed.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// StoreConfig configures the run ledger database.
type StoreConfig struct {
	// Path is the SQLite database file; empty disables recording.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures conhist's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`
}

// Default returns a ConhistConfig with sensible defaults.
func Default() *ConhistConfig {
	return &ConhistConfig{
		Simulate: SimulateConfig{
			Trials: 0,
			Seed:   1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.conhist/config.yaml -> environment variables
func Load() (*ConhistConfig, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".conhist", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*ConhistConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration is valid.
func (c *ConhistConfig) Validate() error {
	if c.Simulate.Trials < 0 {
		return fmt.Errorf("trials must be non-negative, got %d", c.Simulate.Trials)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *ConhistConfig) {
	if v := os.Getenv("CONHIST_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulate.Trials = n
		}
	}

	if v := os.Getenv("CONHIST_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulate.Seed = n
		}
	}

	if v := os.Getenv("CONHIST_DB"); v != "" {
		config.Store.Path = v
	}

	if v := os.Getenv("CONHIST_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
