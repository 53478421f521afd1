// Package config loads service-layer configuration from a yaml file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Catalog configures the exercise-catalog resolution client.
type Catalog struct {
	BaseURL     string        `yaml:"base_url" env:"CATALOG_BASE_URL"`
	APIKey      string        `yaml:"api_key" env:"CATALOG_API_KEY"`
	MaxAttempts int           `yaml:"max_attempts" env:"CATALOG_MAX_ATTEMPTS"`
	BaseDelay   time.Duration `yaml:"base_delay" env:"CATALOG_BASE_DELAY"`
	MaxDelay    time.Duration `yaml:"max_delay" env:"CATALOG_MAX_DELAY"`
	Timeout     time.Duration `yaml:"timeout" env:"CATALOG_TIMEOUT"`
}

// Config is the root configuration.
type Config struct {
	LogLevel string  `yaml:"log_level" env:"LOG_LEVEL"`
	Catalog  Catalog `yaml:"catalog"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Catalog: Catalog{
			MaxAttempts: 3,
			BaseDelay:   200 * time.Millisecond,
			MaxDelay:    10 * time.Second,
			Timeout:     30 * time.Second,
		},
	}
}

// Load builds the configuration: defaults, then the yaml file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Catalog.MaxAttempts < 1 {
		return fmt.Errorf("catalog.max_attempts must be at least 1")
	}
	if c.Catalog.BaseDelay <= 0 {
		return fmt.Errorf("catalog.base_delay must be positive")
	}
	return nil
}
