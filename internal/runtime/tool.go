// ABOUTME: Tool interface, function adapter, and result rendering
// ABOUTME: Tools are opaque named functions from structured args to a value or error

package runtime

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is an invokable capability exposed to the model. Implementations are
// opaque to the runtime: any fault is captured as result text, never a run
// failure.
type Tool interface {
	Name() string
	Description() string
	// Schema returns a JSON-schema-shaped description of the tool's
	// arguments, or nil when the tool takes none.
	Schema() map[string]any
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Manifest is the UI-facing description of a registered tool.
type Manifest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// ManifestFor builds the manifest entry for a tool.
func ManifestFor(t Tool) Manifest {
	return Manifest{
		Name:        t.Name(),
		Description: t.Description(),
		Schema:      t.Schema(),
	}
}

type funcTool struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// Func wraps a plain function as a Tool.
func Func(name, description string, schema map[string]any, fn func(ctx context.Context, args map[string]any) (any, error)) Tool {
	return &funcTool{name: name, description: description, schema: schema, fn: fn}
}

func (t *funcTool) Name() string           { return t.name }
func (t *funcTool) Description() string    { return t.description }
func (t *funcTool) Schema() map[string]any { return t.schema }

func (t *funcTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}

// renderResult converts a tool result to display text. Strings pass through
// unchanged; everything else gets a deterministic JSON rendering, falling
// back to fmt for values JSON cannot express.
func renderResult(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
