package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "bookmatch.yaml"

// Config represents the top-level bookmatch.yaml configuration.
type Config struct {
	Database  string          `yaml:"database"`
	Statement StatementConfig `yaml:"statement"`
	Resolve   ResolveConfig   `yaml:"resolve"`
	LogLevel  string          `yaml:"log_level"`
}

// StatementConfig carries defaults for reading the external statement.
type StatementConfig struct {
	Sheet    string `yaml:"sheet"`
	Matching string `yaml:"matching"` // "spending" or "booking"
}

// ResolveConfig carries defaults for the interactive resolution step.
type ResolveConfig struct {
	Counterparty string `yaml:"counterparty"` // account name for the offsetting leg
}

// Load reads a bookmatch.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadDefault reads bookmatch.yaml from the working directory, falling back
// to defaults when the file does not exist.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: os.Getenv("BOOKMATCH_DB"),
		Statement: StatementConfig{
			Sheet:    "Sheet1",
			Matching: "spending",
		},
		LogLevel: "info",
	}
}
