// ABOUTME: Message, ToolCall, and ContextItem types shared across the core
// ABOUTME: Defines the transcript vocabulary and its persisted JSON layout

package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for transcript messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a structured request, emitted by the model, to invoke a named
// tool with arguments.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Message is one transcript entry. Tool-role messages carry ToolCallID and
// Name linking them back to the assistant tool call that produced them.
type Message struct {
	ID         string     `json:"id"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ContextItem is an out-of-band note injected into the model's system
// context, independent of the message transcript. Identity is by ID.
type ContextItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewID returns a fresh unique identifier.
func NewID() string {
	return uuid.New().String()
}

// Now returns the current UTC time, the timestamp base for all transcript
// entries and conversation records.
func Now() time.Time {
	return time.Now().UTC()
}
