// ABOUTME: Scripted model returning canned turns in order, for tests and demos
// ABOUTME: No API keys, no network; repeats its last turn when the script runs out

package model

import (
	"context"
	"sync"

	"github.com/2389/parley/internal/chat"
	"github.com/2389/parley/internal/runtime"
)

// Scripted is a deterministic Model that replays a fixed sequence of turns.
// Once the script is exhausted it keeps returning the final turn, and an
// empty script yields empty turns, so runs always terminate cleanly.
type Scripted struct {
	mu     sync.Mutex
	script []runtime.Turn
	index  int

	// Calls records the message sequence of every invocation, for assertions.
	Calls [][]chat.Message
}

// NewScripted creates a scripted model from the given turns.
func NewScripted(script ...runtime.Turn) *Scripted {
	return &Scripted{script: script}
}

// Invoke returns the next scripted turn.
func (s *Scripted) Invoke(ctx context.Context, messages []chat.Message) (*runtime.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]chat.Message, len(messages))
	copy(snapshot, messages)
	s.Calls = append(s.Calls, snapshot)

	if len(s.script) == 0 {
		return &runtime.Turn{}, nil
	}
	if s.index >= len(s.script) {
		turn := s.script[len(s.script)-1]
		return &turn, nil
	}

	turn := s.script[s.index]
	s.index++
	return &turn, nil
}

// Invocations returns how many times the model has been invoked.
func (s *Scripted) Invocations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
