// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/2389/parley/internal/chat"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation

	// Fault toggles let tests exercise error paths.
	FailUpsert error
	FailList   error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		conversations: make(map[string]*Conversation),
	}
}

// List returns summaries ordered by most recently updated first.
func (m *MockStore) List(ctx context.Context, limit int) ([]ConversationSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailList != nil {
		return nil, m.FailList
	}

	summaries := make([]ConversationSummary, 0, len(m.conversations))
	for _, c := range m.conversations {
		summaries = append(summaries, ConversationSummary{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Upsert stores a conversation, preserving created_at on update.
func (m *MockStore) Upsert(ctx context.Context, conv *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpsert != nil {
		return m.FailUpsert
	}

	c := *conv
	c.Messages = append([]chat.Message(nil), conv.Messages...)
	if existing, ok := m.conversations[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	}
	m.conversations[c.ID] = &c
	return nil
}

// LoadMessages retrieves the message log of a stored conversation.
func (m *MockStore) LoadMessages(ctx context.Context, id string) ([]chat.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]chat.Message(nil), c.Messages...), nil
}

// Delete removes a conversation. Absent ids are a no-op.
func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, id)
	return nil
}

// Clear removes all conversations.
func (m *MockStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations = make(map[string]*Conversation)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MockStore) Close() error {
	return nil
}

// Get returns the stored conversation, for assertions.
func (m *MockStore) Get(id string) (*Conversation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversations[id]
	if !ok {
		return nil, false
	}
	copied := *c
	copied.Messages = append([]chat.Message(nil), c.Messages...)
	return &copied, true
}

// Len returns the number of stored conversations.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversations)
}
