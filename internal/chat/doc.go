// Package chat defines the shared conversation vocabulary: transcript
// messages, tool calls, and context items.
//
// Every other core package speaks in these types. The JSON tags on Message
// are the persisted layout — the store serializes message lists opaquely, so
// changing a tag here changes what ends up on disk.
//
// Invariant: a tool-role message's ToolCallID must reference a tool call
// emitted by the immediately preceding assistant message. The runtime drops
// entries that violate this when reconstructing model input.
package chat
