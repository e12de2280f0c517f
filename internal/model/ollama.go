// ABOUTME: Ollama adapter implementing the runtime Model interface
// ABOUTME: Converts transcript messages and tool schemas to Ollama API types

package model

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/2389/parley/internal/chat"
	"github.com/2389/parley/internal/runtime"
)

// Ollama adapts an Ollama server to the runtime's Model interface.
// Tool manifests are bound at construction and advertised on every request.
type Ollama struct {
	client *api.Client
	model  string
	tools  []api.Tool
}

// NewOllama creates an adapter for the given host and model name.
// Empty host defaults to the local Ollama daemon.
func NewOllama(host, model string, manifests []runtime.Manifest) (*Ollama, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}

	return &Ollama{
		client: api.NewClient(parsed, http.DefaultClient),
		model:  model,
		tools:  convertManifests(manifests),
	}, nil
}

// Invoke sends the message sequence to Ollama and returns the assistant turn.
func (o *Ollama) Invoke(ctx context.Context, messages []chat.Message) (*runtime.Turn, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: convertMessages(messages),
		Tools:    o.tools,
		Stream:   &stream,
	}

	turn := &runtime.Turn{}
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		turn.Content += resp.Message.Content
		turn.ToolCalls = append(turn.ToolCalls, convertToolCalls(resp.Message.ToolCalls)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return turn, nil
}

// Ping checks that the Ollama server is reachable.
func (o *Ollama) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := o.client.List(ctx)
	return err
}

// convertMessages maps transcript messages to Ollama API messages. Tool-role
// entries become tool results carrying the originating tool name.
func convertMessages(messages []chat.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		am := api.Message{
			Role:    m.Role,
			Content: m.Content,
		}
		if m.Role == chat.RoleTool {
			am.ToolName = m.Name
		}
		for _, tc := range m.ToolCalls {
			am.ToolCalls = append(am.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.Name,
					Arguments: api.ToolCallFunctionArguments(tc.Args),
				},
			})
		}
		out = append(out, am)
	}
	return out
}

// convertToolCalls maps Ollama tool calls to transcript tool calls. Ollama
// does not assign call ids, so deterministic ones are synthesized.
func convertToolCalls(calls []api.ToolCall) []chat.ToolCall {
	out := make([]chat.ToolCall, 0, len(calls))
	for i, tc := range calls {
		args := make(map[string]any, len(tc.Function.Arguments))
		for k, v := range tc.Function.Arguments {
			args[k] = v
		}
		out = append(out, chat.ToolCall{
			ID:   fmt.Sprintf("call_%d", i+1),
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return out
}

// convertManifests maps tool manifests to Ollama tool definitions.
func convertManifests(manifests []runtime.Manifest) []api.Tool {
	out := make([]api.Tool, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        m.Name,
				Description: m.Description,
				Parameters:  convertSchema(m.Schema),
			},
		})
	}
	return out
}

// convertSchema maps a JSON-schema-shaped argument description to Ollama's
// typed parameter struct. Unrecognized shapes degrade to empty fields rather
// than failing the request.
func convertSchema(schema map[string]any) api.ToolFunctionParameters {
	params := api.ToolFunctionParameters{
		Type:       "object",
		Properties: map[string]api.ToolProperty{},
	}
	if schema == nil {
		return params
	}

	if t, ok := schema["type"].(string); ok && t != "" {
		params.Type = t
	}
	if required, ok := schema["required"].([]string); ok {
		params.Required = required
	} else if required, ok := schema["required"].([]any); ok {
		for _, v := range required {
			if s, ok := v.(string); ok {
				params.Required = append(params.Required, s)
			}
		}
	}

	props, _ := schema["properties"].(map[string]any)
	for name, raw := range props {
		prop := api.ToolProperty{}
		pm, ok := raw.(map[string]any)
		if !ok {
			params.Properties[name] = prop
			continue
		}
		if t, ok := pm["type"].(string); ok {
			prop.Type = api.PropertyType{t}
		}
		if desc, ok := pm["description"].(string); ok {
			prop.Description = desc
		}
		if enum, ok := pm["enum"].([]any); ok {
			prop.Enum = enum
		}
		if items, ok := pm["items"]; ok {
			prop.Items = items
		}
		params.Properties[name] = prop
	}

	return params
}
