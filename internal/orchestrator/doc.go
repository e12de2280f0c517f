// Package orchestrator is the top-level stateful coordinator of a
// conversation.
//
// # Overview
//
// The Orchestrator owns the live message log, the run status, the active
// conversation identity, and a dirty flag. It translates inbound commands
// into state changes, launches runtime runs as cancellable background
// goroutines, consumes their event streams to mutate the log and re-emit UI
// events, and hands off to the history store on save/load/delete/clear
// transitions.
//
// # Concurrency
//
// One mutex guards all conversation state; the orchestrator is the single
// serialization point for mutation. Each run executes in its own goroutine
// with its own context and a generation number. Starting a new run cancels
// and supersedes the previous one (last submit wins); events arriving from a
// superseded generation are discarded. Cancellation is cooperative — the
// orchestrator flips to idle immediately and never blocks waiting for the
// run to notice.
//
// # Event flow
//
//	command → Orchestrator → runtime run → events → Orchestrator → UI
//
// Per run event: exactly one state mutation and at most one re-emission.
// assistant_message and tool_end append to the log and mark it dirty;
// tool_start is forwarded untouched; error becomes a chat-visible assistant
// message. A fault escaping the run itself (not a reported error event) is
// caught at this boundary and converted to idle status plus an assistant
// error message.
package orchestrator
