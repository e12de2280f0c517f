// Package store provides durable conversation persistence.
//
// # Overview
//
// The store is a keyed table of conversations (id → title, timestamps,
// ordered message list) backed by SQLite. Message lists are serialized as an
// opaque JSON array — the store does not validate message schema, it only
// requires that the payload round-trips as a list.
//
// # Operations
//
//   - List(ctx, limit): summaries ordered by updated_at, newest first
//   - Upsert(ctx, conv): single-statement transactional write; preserves the
//     original created_at on conflict
//   - LoadMessages(ctx, id): the full message list; ErrNotFound / ErrCorrupt
//   - Delete(ctx, id): no-op on absent ids
//   - Clear(ctx): drops everything
//
// An index on updated_at supports the recency listing without scanning
// message bodies.
//
// # Concurrency
//
// Each operation is one short transaction. SQLite's single-writer model
// serializes per-id writes, so multiple orchestrators against the same file
// cannot interleave a record's fields.
package store
