// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides conversation persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/2389/parley/internal/chat"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			messages_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_conversations_updated_at
			ON conversations(updated_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns conversation summaries ordered by update time, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]ConversationSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	summaries := []ConversationSummary{}
	for rows.Next() {
		var cs ConversationSummary
		var createdAt, updatedAt string
		if err := rows.Scan(&cs.ID, &cs.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}
		cs.CreatedAt = parseTime(createdAt)
		cs.UpdatedAt = parseTime(updatedAt)
		summaries = append(summaries, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversation rows: %w", err)
	}

	return summaries, nil
}

// Upsert writes a conversation record in a single statement. On conflict the
// original created_at is preserved; title, updated_at, and messages are
// overwritten.
func (s *SQLiteStore) Upsert(ctx context.Context, conv *Conversation) error {
	payload, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("marshaling messages: %w", err)
	}
	if conv.Messages == nil {
		payload = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, created_at, updated_at, messages_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			messages_json = excluded.messages_json`,
		conv.ID,
		conv.Title,
		conv.CreatedAt.UTC().Format(time.RFC3339Nano),
		conv.UpdatedAt.UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("upserting conversation %s: %w", conv.ID, err)
	}

	s.logger.Debug("conversation saved", "id", conv.ID, "messages", len(conv.Messages))
	return nil
}

// LoadMessages returns the message list for a conversation id.
func (s *SQLiteStore) LoadMessages(ctx context.Context, id string) ([]chat.Message, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT messages_json FROM conversations WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation %s: %w", id, err)
	}

	// The payload must be a JSON array of messages; anything else is corrupt.
	var messages []chat.Message
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, id)
	}
	if messages == nil {
		messages = []chat.Message{}
	}

	return messages, nil
}

// Delete removes a conversation. Deleting an absent id is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM conversations WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting conversation %s: %w", id, err)
	}
	return nil
}

// Clear removes all conversations.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM conversations"); err != nil {
		return fmt.Errorf("clearing conversations: %w", err)
	}
	return nil
}

// parseTime handles both RFC3339 strings and SQLite's DATETIME rendering.
func parseTime(v string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t
	}
	return time.Time{}
}
