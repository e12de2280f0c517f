// Package config handles configuration loading for parley.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from PARLEY_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/parley/parley.yaml
//  3. ~/.config/parley/parley.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${HOME}/.local/share/parley/history.db"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "/var/lib/parley/history.db"
//
// Model backend:
//
//	model:
//	  provider: ollama    # ollama or scripted
//	  host: "http://localhost:11434"
//	  name: "llama3.1:latest"
//
// Run loop:
//
//	runtime:
//	  system_prompt: "You are a helpful assistant."
//	  max_steps: 8
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Database path presence
//   - Provider values
//   - Tool step budget bounds
package config
