package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	BackendLSM    = "lsm"
	BackendMemory = "memory"
)

type Config struct {
	DataDir        string `yaml:"data_dir"`
	Backend        string `yaml:"backend"`
	FlushThreshold int    `yaml:"flush_threshold"`
	LogLevel       string `yaml:"log_level"`
	MetricsFile    string `yaml:"metrics_file"`
}

// LoadConfig loads configuration from a YAML file if path is provided,
// otherwise it falls back to environment variables. Environment variables
// override file values in both cases.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	// If path is provided, it must exist and parse
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can be used to open a store.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLSM, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendLSM, BackendMemory)
	}
	if c.Backend == BackendLSM && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required for the %s backend", BackendLSM)
	}
	if c.FlushThreshold < 1 {
		return fmt.Errorf("flush threshold must be at least 1, got %d", c.FlushThreshold)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = "./pyaz/data"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendLSM
	}
	if cfg.FlushThreshold == 0 {
		cfg.FlushThreshold = 1000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	if v := os.Getenv("FLUSH_THRESHOLD"); v != "" {
		threshold, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FLUSH_THRESHOLD value: %w", err)
		}
		cfg.FlushThreshold = threshold
	}
	return nil
}
