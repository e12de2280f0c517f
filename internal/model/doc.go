// Package model provides concrete adapters for the runtime's Model
// interface.
//
// Ollama talks to a local or remote Ollama server, handling the type
// conversions between the transcript vocabulary and the Ollama API (messages,
// tool schemas, tool calls). Scripted replays canned turns for tests and
// offline demos.
package model
