// ABOUTME: Stateful coordinator owning the live conversation and its in-flight run
// ABOUTME: Single serialization point between UI commands, the runtime, and the store

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389/parley/internal/chat"
	"github.com/2389/parley/internal/runtime"
	"github.com/2389/parley/internal/store"
)

const (
	// eventBufferSize is the outbound channel buffer. Matches the
	// subscriber buffer used elsewhere in this codebase (64 events).
	eventBufferSize = 64

	// historyLimit bounds the recency index kept in the snapshot.
	historyLimit = 50
)

// Orchestrator owns the live conversation state: message log, run status,
// active conversation identity, dirty flag, and the at-most-one in-flight
// run. All mutation happens under one mutex, making it the system's single
// serialization point.
type Orchestrator struct {
	mu sync.Mutex

	store    store.Store
	model    runtime.Model
	settings runtime.Settings
	logger   *slog.Logger

	messages     []chat.Message
	status       string
	activeID     string
	dirty        bool
	contextItems []chat.ContextItem
	tools        []runtime.Tool
	historyIndex []store.ConversationSummary

	cancelRun context.CancelFunc
	runGen    uint64

	events chan runtime.Event
}

// Snapshot is the observable state the orchestrator publishes: everything a
// UI needs to render, with no access to internals.
type Snapshot struct {
	Messages             []chat.Message              `json:"messages"`
	Status               string                      `json:"status"`
	ActiveConversationID string                      `json:"active_conversation_id,omitempty"`
	Dirty                bool                        `json:"dirty"`
	ContextItems         []chat.ContextItem          `json:"context_items"`
	Tools                []runtime.Manifest          `json:"tools"`
	HistoryIndex         []store.ConversationSummary `json:"history_index"`
}

// New creates an Orchestrator. Pass nil logger for the default.
func New(st store.Store, mdl runtime.Model, settings runtime.Settings, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:    st,
		model:    mdl,
		settings: settings,
		logger:   logger.With("component", "orchestrator"),
		status:   runtime.StatusIdle,
		events:   make(chan runtime.Event, eventBufferSize),
	}
}

// Events returns the outbound event stream: runtime lifecycle events plus
// UI hints, in emission order.
func (o *Orchestrator) Events() <-chan runtime.Event {
	return o.events
}

// Snapshot returns a copy of the observable state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	manifests := make([]runtime.Manifest, 0, len(o.tools))
	for _, t := range o.tools {
		manifests = append(manifests, runtime.ManifestFor(t))
	}

	return Snapshot{
		Messages:             append([]chat.Message(nil), o.messages...),
		Status:               o.status,
		ActiveConversationID: o.activeID,
		Dirty:                o.dirty,
		ContextItems:         append([]chat.ContextItem(nil), o.contextItems...),
		Tools:                manifests,
		HistoryIndex:         append([]store.ConversationSummary(nil), o.historyIndex...),
	}
}

// Status returns the current run status.
func (o *Orchestrator) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Messages returns a copy of the live message log.
func (o *Orchestrator) Messages() []chat.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]chat.Message(nil), o.messages...)
}

// RegisterTool adds a tool to the set advertised to subsequent runs.
func (o *Orchestrator) RegisterTool(t runtime.Tool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tools = append(o.tools, t)
}

// SubmitUserText appends a user message and starts a new run, superseding
// any run in progress. Input that is empty after trimming is ignored.
func (o *Orchestrator) SubmitUserText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.appendLocked(chat.Message{
		ID:        chat.NewID(),
		Role:      chat.RoleUser,
		Content:   text,
		CreatedAt: chat.Now(),
	})
	o.startRunLocked()
}

// Cancel requests cancellation of the in-flight run, if any, and sets the
// status to idle immediately without waiting for the run to observe it.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancelRun != nil {
		o.cancelRun()
		o.cancelRun = nil
	}
	o.setStatusLocked(runtime.StatusIdle)
}

// Reset clears the live conversation without touching the store.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
}

// Close cancels any in-flight run and closes the event stream.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancelRun != nil {
		o.cancelRun()
		o.cancelRun = nil
	}
	o.runGen++ // orphan any still-running goroutine
	if o.events != nil {
		close(o.events)
		o.events = nil
	}
}

// startRunLocked cancels any in-flight run and launches a new one over a
// snapshot of the current state. Last submit wins.
func (o *Orchestrator) startRunLocked() {
	if o.cancelRun != nil {
		o.cancelRun()
	}

	o.runGen++
	gen := o.runGen

	runCtx, cancel := context.WithCancel(context.Background())
	o.cancelRun = cancel

	messages := append([]chat.Message(nil), o.messages...)
	items := append([]chat.ContextItem(nil), o.contextItems...)
	tools := append([]runtime.Tool(nil), o.tools...)
	settings := o.settings

	rt := runtime.New(o.model, tools, o.logger)

	go func() {
		defer cancel()
		// A fault escaping the run must land as a chat-visible error, not
		// a process crash.
		defer func() {
			if rec := recover(); rec != nil {
				o.finishRun(gen, fmt.Errorf("run panicked: %v", rec))
			}
		}()
		err := rt.Run(runCtx, messages, items, settings, func(ev runtime.Event) {
			o.handleRunEvent(gen, ev)
		})
		o.finishRun(gen, err)
	}()
}

// handleRunEvent applies one runtime event to the live state. Events from a
// superseded run generation are discarded.
func (o *Orchestrator) handleRunEvent(gen uint64, ev runtime.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.runGen {
		return
	}

	switch ev.Type {
	case runtime.EventStatus:
		o.status = ev.Status
		o.publishLocked(ev)

	case runtime.EventAssistantMessage:
		o.appendLocked(chat.Message{
			ID:        chat.NewID(),
			Role:      chat.RoleAssistant,
			Content:   ev.Content,
			ToolCalls: ev.ToolCalls,
			CreatedAt: chat.Now(),
		})
		o.publishLocked(ev)
		o.publishLocked(runtime.Event{Type: runtime.EventScrollToBottom})

	case runtime.EventToolStart:
		// Forwarded unmodified; the message log is not touched.
		o.publishLocked(ev)

	case runtime.EventToolEnd:
		o.appendLocked(chat.Message{
			ID:         chat.NewID(),
			Role:       chat.RoleTool,
			Name:       ev.Name,
			ToolCallID: ev.ToolCallID,
			Content:    ev.Content,
			CreatedAt:  chat.Now(),
		})
		o.publishLocked(ev)
		o.publishLocked(runtime.Event{Type: runtime.EventScrollToBottom})

	case runtime.EventError:
		o.appendLocked(chat.Message{
			ID:        chat.NewID(),
			Role:      chat.RoleAssistant,
			Content:   "Error: " + ev.Message,
			CreatedAt: chat.Now(),
		})
		o.publishLocked(ev)
		o.publishLocked(runtime.Event{Type: runtime.EventScrollToBottom})
	}
}

// finishRun handles run termination. Cancellation lands on idle with no
// synthetic message; any other fault becomes an idle status plus a
// chat-visible assistant error message, never a propagated panic.
func (o *Orchestrator) finishRun(gen uint64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.runGen {
		return
	}
	o.cancelRun = nil

	if err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		o.setStatusLocked(runtime.StatusIdle)
		return
	}

	o.logger.Error("run failed", "error", err)
	o.setStatusLocked(runtime.StatusIdle)
	o.appendLocked(chat.Message{
		ID:        chat.NewID(),
		Role:      chat.RoleAssistant,
		Content:   "Error: " + err.Error(),
		CreatedAt: chat.Now(),
	})
	o.publishLocked(runtime.Event{Type: runtime.EventError, Message: err.Error()})
	o.publishLocked(runtime.Event{Type: runtime.EventScrollToBottom})
}

// appendLocked adds a message to the live log and marks the conversation
// dirty. The log is append-only during a run.
func (o *Orchestrator) appendLocked(m chat.Message) {
	o.messages = append(o.messages, m)
	o.dirty = true
}

// clearLocked resets the live conversation state.
func (o *Orchestrator) clearLocked() {
	o.messages = nil
	o.activeID = ""
	o.dirty = false
}

// setStatusLocked updates the status and publishes the change.
func (o *Orchestrator) setStatusLocked(status string) {
	o.status = status
	o.publishLocked(runtime.Event{Type: runtime.EventStatus, Status: status})
}

// publishLocked sends an event to the outbound channel without blocking.
// Slow consumers lose events rather than stalling the orchestrator.
func (o *Orchestrator) publishLocked(ev runtime.Event) {
	if o.events == nil {
		return
	}
	select {
	case o.events <- ev:
	default:
		o.logger.Warn("event channel full, dropping event", "type", ev.Type)
	}
}
