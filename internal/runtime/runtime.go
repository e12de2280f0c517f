// ABOUTME: Bounded tool-calling run loop alternating model inference and tool execution
// ABOUTME: Stateless across runs; reports progress via an ordered event stream

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/parley/internal/chat"
)

// DefaultMaxSteps caps model-inference rounds when settings leave it unset.
const DefaultMaxSteps = 8

// Turn is one assistant response: text content plus any requested tool calls.
type Turn struct {
	Content   string
	ToolCalls []chat.ToolCall
}

// Model is the opaque inference backend: message history in, one turn out.
type Model interface {
	Invoke(ctx context.Context, messages []chat.Message) (*Turn, error)
}

// Settings holds the per-run options recognized by the runtime.
type Settings struct {
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
	MaxSteps     int    `json:"max_steps" yaml:"max_steps"`
}

// Runtime executes bounded agent runs against a model and a tool set.
// It carries no per-run state; everything a run needs is passed to Run.
type Runtime struct {
	model  Model
	tools  map[string]Tool
	logger *slog.Logger
}

// New creates a Runtime. Pass nil logger for the default.
func New(model Model, tools []Tool, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &Runtime{
		model:  model,
		tools:  byName,
		logger: logger.With("component", "runtime"),
	}
}

// Run executes one agent run: up to MaxSteps rounds of model inference, each
// followed by sequential execution of the tool calls the model requested.
// Progress is reported through emit in emission order. Control-flow outcomes
// (unknown tool, tool fault, step budget) surface as in-band events; only
// model faults and cancellation produce a non-nil error.
func (r *Runtime) Run(ctx context.Context, messages []chat.Message, contextItems []chat.ContextItem, settings Settings, emit EmitFunc) error {
	maxSteps := settings.MaxSteps
	if maxSteps < 1 {
		maxSteps = DefaultMaxSteps
	}

	working := buildModelInput(messages, contextItems, settings.SystemPrompt)

	emit(Event{Type: EventStatus, Status: StatusThinking})

	for step := 0; step < maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		turn, err := r.model.Invoke(ctx, working)
		if err != nil {
			return fmt.Errorf("model invocation failed: %w", err)
		}
		if err := ctx.Err(); err != nil {
			// Cancelled mid-call: drop the turn rather than emit a partial round.
			return err
		}

		emit(Event{
			Type:      EventAssistantMessage,
			Content:   turn.Content,
			ToolCalls: turn.ToolCalls,
		})

		working = append(working, chat.Message{
			ID:        chat.NewID(),
			Role:      chat.RoleAssistant,
			Content:   turn.Content,
			ToolCalls: turn.ToolCalls,
			CreatedAt: chat.Now(),
		})

		if len(turn.ToolCalls) == 0 {
			emit(Event{Type: EventStatus, Status: StatusIdle})
			return nil
		}

		for _, call := range turn.ToolCalls {
			emit(Event{
				Type:       EventToolStart,
				ToolCallID: call.ID,
				Name:       call.Name,
				Args:       call.Args,
			})

			content := r.executeTool(ctx, call)
			if err := ctx.Err(); err != nil {
				return err
			}

			working = append(working, chat.Message{
				ID:         chat.NewID(),
				Role:       chat.RoleTool,
				Name:       call.Name,
				ToolCallID: call.ID,
				Content:    content,
				CreatedAt:  chat.Now(),
			})

			emit(Event{
				Type:       EventToolEnd,
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    content,
			})
		}
	}

	// Budget exhausted without a tool-call-free response. This is an expected
	// control-flow outcome, reported in-band.
	emit(Event{
		Type:    EventError,
		Message: fmt.Sprintf("Max tool steps exceeded (%d).", maxSteps),
	})
	emit(Event{Type: EventStatus, Status: StatusIdle})
	return nil
}

// executeTool dispatches one tool call, converting unknown names and
// execution faults into result text. Tools are untrusted: a panicking
// Invoke must not take down the run, so panics become result text too.
func (r *Runtime) executeTool(ctx context.Context, call chat.ToolCall) (content string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked",
				"tool", call.Name,
				"call_id", call.ID,
				"panic", rec)
			content = fmt.Sprintf("Tool error: %T: %v", rec, rec)
		}
	}()

	tool, ok := r.tools[call.Name]
	if !ok {
		r.logger.Warn("unknown tool requested", "tool", call.Name, "call_id", call.ID)
		return fmt.Sprintf("Unknown tool: %s", call.Name)
	}

	result, err := tool.Invoke(ctx, call.Args)
	if err != nil {
		r.logger.Debug("tool execution failed",
			"tool", call.Name,
			"call_id", call.ID,
			"error", err)
		return fmt.Sprintf("Tool error: %T: %v", err, err)
	}

	return renderResult(result)
}

// buildModelInput reconstructs the model-ready message sequence: an optional
// leading system message followed by the transcript, with orphaned tool
// results dropped. A tool message survives only when its tool_call_id matches
// a still-open call from the nearest preceding assistant message; a user
// message closes the set. This repairs histories where a tool call never
// completed.
func buildModelInput(transcript []chat.Message, contextItems []chat.ContextItem, systemPrompt string) []chat.Message {
	system := strings.TrimSpace(systemPrompt)
	if blob := renderContextItems(contextItems); blob != "" {
		system = strings.TrimSpace(system + "\n\n" + blob)
	}

	out := make([]chat.Message, 0, len(transcript)+1)
	if system != "" {
		out = append(out, chat.Message{
			ID:        chat.NewID(),
			Role:      chat.RoleSystem,
			Content:   system,
			CreatedAt: chat.Now(),
		})
	}

	open := map[string]bool{}
	for _, m := range transcript {
		switch m.Role {
		case chat.RoleUser:
			open = map[string]bool{}
			out = append(out, m)
		case chat.RoleAssistant:
			open = make(map[string]bool, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				if tc.ID != "" {
					open[tc.ID] = true
				}
			}
			out = append(out, m)
		case chat.RoleTool:
			if m.ToolCallID != "" && !open[m.ToolCallID] {
				continue
			}
			delete(open, m.ToolCallID)
			out = append(out, m)
		default:
			out = append(out, m)
		}
	}

	return out
}

// renderContextItems joins context items as "[title-or-id]\ncontent" blocks
// separated by blank lines.
func renderContextItems(items []chat.ContextItem) string {
	if len(items) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		label := item.Title
		if label == "" {
			label = item.ID
		}
		if label == "" {
			label = "context"
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", label, item.Content))
	}
	return strings.Join(blocks, "\n\n")
}
