// ABOUTME: Configuration loading and parsing for parley
// ABOUTME: YAML files with environment variable expansion and validation

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete parley configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Model    ModelConfig    `yaml:"model"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds the history store location. The path is required:
// default-path resolution is a bootstrapping concern and the core never
// assumes a home-directory location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ModelConfig selects and configures the inference backend.
type ModelConfig struct {
	// Provider is "ollama" or "scripted" (offline demo).
	Provider string `yaml:"provider"`
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
}

// RuntimeConfig holds per-run agent settings.
type RuntimeConfig struct {
	SystemPrompt string `yaml:"system_prompt"`
	MaxSteps     int    `yaml:"max_steps"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with sensible defaults for everything but
// the database path, which remains required.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider: "ollama",
			Host:     "http://localhost:11434",
			Name:     "llama3.1:latest",
		},
		Runtime: RuntimeConfig{
			MaxSteps: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and
// valid. Returns an error describing the first validation failure.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Model.Provider {
	case "ollama", "scripted":
	default:
		return fmt.Errorf("model.provider must be \"ollama\" or \"scripted\", got %q", c.Model.Provider)
	}

	if c.Runtime.MaxSteps < 1 {
		return fmt.Errorf("runtime.max_steps must be at least 1, got %d", c.Runtime.MaxSteps)
	}

	return nil
}
