package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config represents the planner configuration.
type Config struct {
	LogLevel string `json:"log_level"`

	// Optimizer configuration
	Optimizer OptimizerConfig `json:"optimizer"`
}

// OptimizerConfig represents optimizer-specific configuration.
type OptimizerConfig struct {
	// EnableIndexSelection toggles the materialized index selection rule.
	EnableIndexSelection bool `json:"enable_index_selection"`

	// PreAggregationHint is the scan hint token that forces
	// pre-aggregated rewriting.
	PreAggregationHint string `json:"pre_aggregation_hint"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Optimizer: OptimizerConfig{
			EnableIndexSelection: true,
			PreAggregationHint:   "PREAGGOPEN",
		},
	}
}

// LoadConfig loads configuration from a JSON file, applying defaults for
// missing fields.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Optimizer.PreAggregationHint == "" {
		return fmt.Errorf("pre_aggregation_hint must not be empty")
	}
	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
