// ABOUTME: Lifecycle event vocabulary emitted during an agent run
// ABOUTME: Flat wire-friendly Event struct shared by runtime, orchestrator, and UI

package runtime

import "github.com/2389/parley/internal/chat"

// EventType identifies the kind of lifecycle event.
type EventType string

const (
	// EventStatus reports the run lifecycle phase (idle or thinking).
	EventStatus EventType = "status"
	// EventAssistantMessage carries one model turn.
	EventAssistantMessage EventType = "assistant_message"
	// EventToolStart announces a tool is about to execute.
	EventToolStart EventType = "tool_start"
	// EventToolEnd reports a finished tool with its result text.
	EventToolEnd EventType = "tool_end"
	// EventError reports a run-level non-fatal failure.
	EventError EventType = "error"
	// EventScrollToBottom is a UI hint emitted by the orchestrator.
	EventScrollToBottom EventType = "scroll_to_bottom"
)

// Status values carried by EventStatus.
const (
	StatusIdle     = "idle"
	StatusThinking = "thinking"
)

// Event is one lifecycle event. Only the fields relevant to the event's
// Type are populated; the zero values of the rest are omitted on the wire.
type Event struct {
	Type       EventType       `json:"type"`
	Status     string          `json:"status,omitempty"`
	Content    string          `json:"content,omitempty"`
	ToolCalls  []chat.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	Name       string          `json:"name,omitempty"`
	Args       map[string]any  `json:"args,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// EmitFunc receives lifecycle events in emission order. The runtime calls it
// synchronously, so a slow sink slows the run rather than reordering it.
type EmitFunc func(Event)
