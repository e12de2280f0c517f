// ABOUTME: Context item management with id-based identity
// ABOUTME: Last-write-wins upsert, order-preserving, independent of the transcript

package orchestrator

import "github.com/2389/parley/internal/chat"

// AddContext appends a context item, generating an id when none is given.
// Returns the item's id.
func (o *Orchestrator) AddContext(id, title, content string) string {
	if id == "" {
		id = chat.NewID()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.contextItems = append(o.contextItems, chat.ContextItem{
		ID:      id,
		Title:   title,
		Content: content,
	})
	return id
}

// UpsertContext replaces the item with the given id in place, preserving
// order; an absent id is appended. Returns the id.
func (o *Orchestrator) UpsertContext(id, title, content string) string {
	item := chat.ContextItem{ID: id, Title: title, Content: content}

	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.contextItems {
		if o.contextItems[i].ID == id {
			o.contextItems[i] = item
			return id
		}
	}
	o.contextItems = append(o.contextItems, item)
	return id
}

// RemoveContext removes the item with the given id. Absent ids are a no-op.
func (o *Orchestrator) RemoveContext(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.contextItems[:0]
	for _, item := range o.contextItems {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	o.contextItems = kept
}

// ClearContext removes all context items.
func (o *Orchestrator) ClearContext() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.contextItems = nil
}

// ContextItems returns a copy of the current context item set.
func (o *Orchestrator) ContextItems() []chat.ContextItem {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]chat.ContextItem(nil), o.contextItems...)
}
