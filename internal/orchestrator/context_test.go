// ABOUTME: Tests for context item management
// ABOUTME: Covers id generation, order-preserving upsert, and removal

package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddContext_GeneratesID(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	id := o.AddContext("", "notes.txt", "remember the milk")
	require.NotEmpty(t, id)

	items := o.ContextItems()
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "notes.txt", items[0].Title)
	assert.Equal(t, "remember the milk", items[0].Content)
}

func TestAddContext_KeepsGivenID(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	id := o.AddContext("my-id", "notes.txt", "content")
	assert.Equal(t, "my-id", id)
}

func TestUpsertContext_ReplacesInPlace(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	o.AddContext("a", "first", "1")
	o.AddContext("b", "second", "2")
	o.AddContext("c", "third", "3")

	o.UpsertContext("b", "second revised", "2b")

	items := o.ContextItems()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "second revised", items[1].Title)
	assert.Equal(t, "2b", items[1].Content)
}

func TestUpsertContext_AppendsWhenAbsent(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	o.AddContext("a", "first", "1")
	o.UpsertContext("z", "new", "fresh")

	items := o.ContextItems()
	require.Len(t, items, 2)
	assert.Equal(t, "z", items[1].ID)
}

func TestRemoveContext(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	o.AddContext("a", "first", "1")
	o.AddContext("b", "second", "2")

	o.RemoveContext("a")

	items := o.ContextItems()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)

	// Absent ids are a no-op.
	o.RemoveContext("ghost")
	assert.Len(t, o.ContextItems(), 1)
}

func TestClearContext(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	o.AddContext("a", "first", "1")
	o.AddContext("b", "second", "2")
	o.ClearContext()

	assert.Empty(t, o.ContextItems())
}
