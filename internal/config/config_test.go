// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers YAML parsing, env var expansion, defaults, and validation failures

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parley.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley-test.db

model:
  provider: ollama
  host: http://example.com:11434
  name: qwen2.5:7b

runtime:
  system_prompt: "Be terse."
  max_steps: 4

logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/parley-test.db", cfg.Database.Path)
	assert.Equal(t, "ollama", cfg.Model.Provider)
	assert.Equal(t, "http://example.com:11434", cfg.Model.Host)
	assert.Equal(t, "qwen2.5:7b", cfg.Model.Name)
	assert.Equal(t, "Be terse.", cfg.Runtime.SystemPrompt)
	assert.Equal(t, 4, cfg.Runtime.MaxSteps)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley-test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Model.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Model.Host)
	assert.Equal(t, 8, cfg.Runtime.MaxSteps)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("PARLEY_TEST_DB_DIR", "/data/parley")

	path := writeConfig(t, `
database:
  path: ${PARLEY_TEST_DB_DIR}/history.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/parley/history.db", cfg.Database.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "database: [not: a: mapping")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "bad provider",
			mutate:  func(c *Config) { c.Model.Provider = "openai" },
			wantErr: "model.provider",
		},
		{
			name:    "zero max steps",
			mutate:  func(c *Config) { c.Runtime.MaxSteps = 0 },
			wantErr: "max_steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.Path = "/tmp/test.db"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_ScriptedProvider(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = "/tmp/test.db"
	cfg.Model.Provider = "scripted"
	assert.NoError(t, cfg.Validate())
}
