// ABOUTME: History store handoff: save, load, new-chat, delete, clear, index refresh
// ABOUTME: Derives conversation titles from the first user message at save time

package orchestrator

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/2389/parley/internal/chat"
	"github.com/2389/parley/internal/runtime"
	"github.com/2389/parley/internal/store"
)

const (
	defaultTitle  = "Conversation"
	titleMaxRunes = 80
)

// Save persists the current message log under the active conversation id,
// or a freshly generated one if none is active. Saving an empty log is a
// no-op. A successful save clears the dirty flag and refreshes the index.
func (o *Orchestrator) Save(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.saveLocked(ctx)
}

func (o *Orchestrator) saveLocked(ctx context.Context) error {
	if len(o.messages) == 0 {
		return nil
	}

	id := o.activeID
	if id == "" {
		id = chat.NewID()
	}

	now := chat.Now()
	conv := &store.Conversation{
		ID:        id,
		Title:     deriveTitle(o.messages),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  append([]chat.Message(nil), o.messages...),
	}
	if err := o.store.Upsert(ctx, conv); err != nil {
		return err
	}

	o.activeID = id
	o.dirty = false
	o.logger.Debug("conversation saved", "id", id, "messages", len(conv.Messages))

	return o.refreshIndexLocked(ctx)
}

// Load replaces the live message log with a stored conversation. A store
// failure (including ErrNotFound) leaves live state unmodified.
func (o *Orchestrator) Load(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	messages, err := o.store.LoadMessages(ctx, id)
	if err != nil {
		return err
	}

	o.messages = messages
	o.activeID = id
	o.dirty = false
	o.publishLocked(runtime.Event{Type: runtime.EventScrollToBottom})
	o.logger.Debug("conversation loaded", "id", id, "messages", len(messages))
	return nil
}

// NewChat saves the current conversation first if it has unsaved changes,
// then clears live state and refreshes the recency index.
func (o *Orchestrator) NewChat(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.dirty {
		if err := o.saveLocked(ctx); err != nil {
			return err
		}
	}
	o.clearLocked()
	return o.refreshIndexLocked(ctx)
}

// Delete removes a stored conversation and refreshes the index.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Delete(ctx, id); err != nil {
		return err
	}
	return o.refreshIndexLocked(ctx)
}

// ClearHistory removes all stored conversations and refreshes the index.
func (o *Orchestrator) ClearHistory(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Clear(ctx); err != nil {
		return err
	}
	return o.refreshIndexLocked(ctx)
}

// RefreshIndex reloads the recency index from the store.
func (o *Orchestrator) RefreshIndex(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.refreshIndexLocked(ctx)
}

// HistoryIndex returns a copy of the current recency index.
func (o *Orchestrator) HistoryIndex() []store.ConversationSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]store.ConversationSummary(nil), o.historyIndex...)
}

func (o *Orchestrator) refreshIndexLocked(ctx context.Context) error {
	index, err := o.store.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	o.historyIndex = index
	return nil
}

// deriveTitle builds a conversation title from the first user message:
// whitespace-collapsed and capped at 80 runes, with a default when no user
// message exists.
func deriveTitle(messages []chat.Message) string {
	for _, m := range messages {
		if m.Role != chat.RoleUser {
			continue
		}
		title := strings.Join(strings.Fields(m.Content), " ")
		if title == "" {
			break
		}
		if utf8.RuneCountInString(title) > titleMaxRunes {
			title = string([]rune(title)[:titleMaxRunes])
		}
		return title
	}
	return defaultTitle
}
