// ABOUTME: Tests for the Ollama adapter's type conversions
// ABOUTME: Covers message mapping, synthesized call ids, and schema translation

package model

import (
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/parley/internal/chat"
	"github.com/2389/parley/internal/runtime"
)

func TestNewOllama_DefaultsHost(t *testing.T) {
	o, err := NewOllama("", "llama3.1:latest", nil)
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestConvertMessages(t *testing.T) {
	messages := []chat.Message{
		{Role: chat.RoleSystem, Content: "be helpful"},
		{Role: chat.RoleUser, Content: "add 2 and 3"},
		{
			Role: chat.RoleAssistant,
			ToolCalls: []chat.ToolCall{
				{ID: "call_1", Name: "add", Args: map[string]any{"a": 2.0}},
			},
		},
		{Role: chat.RoleTool, Name: "add", ToolCallID: "call_1", Content: "5"},
	}

	out := convertMessages(messages)
	require.Len(t, out, 4)

	assert.Equal(t, "system", out[0].Role)
	assert.Equal(t, "user", out[1].Role)

	require.Len(t, out[2].ToolCalls, 1)
	assert.Equal(t, "add", out[2].ToolCalls[0].Function.Name)
	assert.Equal(t, 2.0, out[2].ToolCalls[0].Function.Arguments["a"])

	assert.Equal(t, "tool", out[3].Role)
	assert.Equal(t, "add", out[3].ToolName)
	assert.Equal(t, "5", out[3].Content)
}

func TestConvertToolCalls_SynthesizesIDs(t *testing.T) {
	calls := []api.ToolCall{
		{Function: api.ToolCallFunction{Name: "add", Arguments: api.ToolCallFunctionArguments{"a": 1.0}}},
		{Function: api.ToolCallFunction{Name: "sub"}},
	}

	out := convertToolCalls(calls)
	require.Len(t, out, 2)
	assert.Equal(t, "call_1", out[0].ID)
	assert.Equal(t, "add", out[0].Name)
	assert.Equal(t, 1.0, out[0].Args["a"])
	assert.Equal(t, "call_2", out[1].ID)
}

func TestConvertSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number", "description": "first addend"},
			"mode": map[string]any{
				"type": "string",
				"enum": []any{"fast", "slow"},
			},
		},
		"required": []string{"a"},
	}

	params := convertSchema(schema)
	assert.Equal(t, "object", params.Type)
	assert.Equal(t, []string{"a"}, params.Required)

	a, ok := params.Properties["a"]
	require.True(t, ok)
	assert.Equal(t, api.PropertyType{"number"}, a.Type)
	assert.Equal(t, "first addend", a.Description)

	mode, ok := params.Properties["mode"]
	require.True(t, ok)
	assert.Equal(t, []any{"fast", "slow"}, mode.Enum)
}

func TestConvertSchema_Nil(t *testing.T) {
	params := convertSchema(nil)
	assert.Equal(t, "object", params.Type)
	assert.Empty(t, params.Properties)
	assert.Empty(t, params.Required)
}

func TestConvertManifests(t *testing.T) {
	manifests := []runtime.Manifest{
		{Name: "add", Description: "Add two numbers.", Schema: map[string]any{"type": "object"}},
	}

	out := convertManifests(manifests)
	require.Len(t, out, 1)
	assert.Equal(t, "function", out[0].Type)
	assert.Equal(t, "add", out[0].Function.Name)
	assert.Equal(t, "Add two numbers.", out[0].Function.Description)
}
