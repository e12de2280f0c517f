// ABOUTME: Store interface and data types for conversation persistence
// ABOUTME: Defines Conversation, ConversationSummary and the Store interface

package store

import (
	"context"
	"errors"
	"time"

	"github.com/2389/parley/internal/chat"
)

// ErrNotFound is returned when a requested conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

// ErrCorrupt is returned when a stored payload does not deserialize to a
// message list.
var ErrCorrupt = errors.New("corrupt conversation payload")

// Conversation is the persisted unit: a titled, timestamped message list
// keyed by a stable id.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []chat.Message
}

// ConversationSummary is a Conversation without its message body, used for
// recency listings.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the interface for conversation persistence.
type Store interface {
	// List returns at most limit summaries, most recently updated first.
	// An empty store yields an empty slice, not an error.
	List(ctx context.Context, limit int) ([]ConversationSummary, error)

	// Upsert creates the record if absent; otherwise it overwrites title,
	// updated_at, and messages while preserving the original created_at.
	// The write is atomic with respect to the record.
	Upsert(ctx context.Context, conv *Conversation) error

	// LoadMessages returns the ordered message list for id.
	// Fails with ErrNotFound if no such record exists and ErrCorrupt if the
	// stored payload does not deserialize to a list.
	LoadMessages(ctx context.Context, id string) ([]chat.Message, error)

	// Delete removes the record. Absent ids are a no-op, not an error.
	Delete(ctx context.Context, id string) error

	// Clear removes all records.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
