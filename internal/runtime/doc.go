// Package runtime executes one bounded tool-calling agent run.
//
// # Overview
//
// A run alternates model inference and tool execution until the model
// responds without tool calls or the step budget is exhausted:
//
//	Start → Inferring → (no tool calls → Done)
//	                  | (tool calls → Executing → Inferring)
//
// Progress is reported through an ordered event stream:
//
//   - status: run lifecycle phase (thinking / idle)
//   - assistant_message: one model turn
//   - tool_start / tool_end: tool execution lifecycle
//   - error: run-level non-fatal failure (e.g. step budget exceeded)
//
// # Error model
//
// Unknown tool names, tool errors, and tool panics never abort the run; they
// are converted to result text the model can see ("Unknown tool: ...",
// "Tool error: ..."). Exhausting the step budget emits an in-band error
// event and returns nil. Only model faults and cancellation return an error
// from Run.
//
// # Cancellation
//
// The model call and each tool call are the suspension points. Cancellation
// is observed there: a cancelled run returns ctx.Err() without appending or
// emitting a partial round.
//
// The Runtime is stateless across runs — every run receives its transcript,
// context items, and settings as arguments.
package runtime
