// ABOUTME: Tests for save, load, new-chat, and title derivation
// ABOUTME: Covers dirty tracking, id reuse, and the missing-conversation no-op

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/parley/internal/chat"
	"github.com/2389/parley/internal/runtime"
	"github.com/2389/parley/internal/store"
)

func TestSave_EmptyIsNoOp(t *testing.T) {
	o, mockStore := newTestOrchestrator(t)

	require.NoError(t, o.Save(context.Background()))
	assert.Zero(t, mockStore.Len())
	assert.Empty(t, o.Snapshot().ActiveConversationID)
}

func TestSave_PersistsAndClearsDirty(t *testing.T) {
	o, mockStore := newTestOrchestrator(t, runtime.Turn{Content: "hi there"})

	o.SubmitUserText("hello   world")
	waitIdle(t, o, 2)

	require.NoError(t, o.Save(context.Background()))

	snap := o.Snapshot()
	require.NotEmpty(t, snap.ActiveConversationID)
	assert.False(t, snap.Dirty)

	conv, ok := mockStore.Get(snap.ActiveConversationID)
	require.True(t, ok)
	assert.Equal(t, "hello world", conv.Title)
	assert.Len(t, conv.Messages, 2)

	// Saving refreshes the recency index.
	index := o.HistoryIndex()
	require.Len(t, index, 1)
	assert.Equal(t, snap.ActiveConversationID, index[0].ID)
}

func TestSave_ReusesActiveID(t *testing.T) {
	o, mockStore := newTestOrchestrator(t, runtime.Turn{Content: "reply"})

	o.SubmitUserText("hello")
	waitIdle(t, o, 2)
	require.NoError(t, o.Save(context.Background()))
	first := o.Snapshot().ActiveConversationID

	o.SubmitUserText("more")
	waitIdle(t, o, 4)
	require.NoError(t, o.Save(context.Background()))

	assert.Equal(t, first, o.Snapshot().ActiveConversationID)
	assert.Equal(t, 1, mockStore.Len())

	conv, ok := mockStore.Get(first)
	require.True(t, ok)
	assert.Len(t, conv.Messages, 4)
}

func TestSave_StoreFaultKeepsDirty(t *testing.T) {
	o, mockStore := newTestOrchestrator(t, runtime.Turn{Content: "reply"})
	mockStore.FailUpsert = errors.New("disk full")

	o.SubmitUserText("hello")
	waitIdle(t, o, 2)

	err := o.Save(context.Background())
	require.Error(t, err)
	assert.True(t, o.Snapshot().Dirty, "failed save must not clear the dirty flag")
}

func TestLoad_ReplacesLiveState(t *testing.T) {
	o, mockStore := newTestOrchestrator(t, runtime.Turn{Content: "reply"})

	stored := &store.Conversation{
		ID:    "old-conv",
		Title: "earlier chat",
		Messages: []chat.Message{
			{ID: "m1", Role: chat.RoleUser, Content: "stored question"},
			{ID: "m2", Role: chat.RoleAssistant, Content: "stored answer"},
		},
	}
	require.NoError(t, mockStore.Upsert(context.Background(), stored))

	o.SubmitUserText("live message")
	waitIdle(t, o, 2)

	require.NoError(t, o.Load(context.Background(), "old-conv"))

	messages := o.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "stored question", messages[0].Content)

	snap := o.Snapshot()
	assert.Equal(t, "old-conv", snap.ActiveConversationID)
	assert.False(t, snap.Dirty)
}

func TestLoad_NotFoundLeavesStateUntouched(t *testing.T) {
	o, _ := newTestOrchestrator(t, runtime.Turn{Content: "reply"})

	o.SubmitUserText("live message")
	waitIdle(t, o, 2)
	before := o.Messages()

	err := o.Load(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, before, o.Messages())
	assert.True(t, o.Snapshot().Dirty)
}

func TestNewChat_SavesDirtyConversationFirst(t *testing.T) {
	o, mockStore := newTestOrchestrator(t, runtime.Turn{Content: "reply"})

	o.SubmitUserText("save me")
	waitIdle(t, o, 2)

	require.NoError(t, o.NewChat(context.Background()))

	assert.Empty(t, o.Messages())
	assert.Empty(t, o.Snapshot().ActiveConversationID)
	assert.Equal(t, 1, mockStore.Len())

	index := o.HistoryIndex()
	require.Len(t, index, 1)
	assert.Equal(t, "save me", index[0].Title)
}

func TestNewChat_CleanStateSkipsSave(t *testing.T) {
	o, mockStore := newTestOrchestrator(t)

	require.NoError(t, o.NewChat(context.Background()))
	assert.Zero(t, mockStore.Len())
}

func TestDelete_RefreshesIndex(t *testing.T) {
	o, mockStore := newTestOrchestrator(t)
	ctx := context.Background()

	require.NoError(t, mockStore.Upsert(ctx, &store.Conversation{ID: "a", Title: "a"}))
	require.NoError(t, mockStore.Upsert(ctx, &store.Conversation{ID: "b", Title: "b"}))
	require.NoError(t, o.RefreshIndex(ctx))
	require.Len(t, o.HistoryIndex(), 2)

	require.NoError(t, o.Delete(ctx, "a"))
	assert.Len(t, o.HistoryIndex(), 1)
}

func TestClearHistory(t *testing.T) {
	o, mockStore := newTestOrchestrator(t)
	ctx := context.Background()

	require.NoError(t, mockStore.Upsert(ctx, &store.Conversation{ID: "a"}))
	require.NoError(t, o.ClearHistory(ctx))

	assert.Zero(t, mockStore.Len())
	assert.Empty(t, o.HistoryIndex())
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		messages []chat.Message
		want     string
	}{
		{
			name: "first user message",
			messages: []chat.Message{
				{Role: chat.RoleUser, Content: "hello world"},
			},
			want: "hello world",
		},
		{
			name: "collapses whitespace",
			messages: []chat.Message{
				{Role: chat.RoleUser, Content: "  hello\n\n  world\t again "},
			},
			want: "hello world again",
		},
		{
			name: "skips non-user messages",
			messages: []chat.Message{
				{Role: chat.RoleAssistant, Content: "I speak first"},
				{Role: chat.RoleUser, Content: "the actual title"},
			},
			want: "the actual title",
		},
		{
			name:     "no user message",
			messages: []chat.Message{{Role: chat.RoleAssistant, Content: "hi"}},
			want:     "Conversation",
		},
		{
			name:     "empty log",
			messages: nil,
			want:     "Conversation",
		},
		{
			name: "whitespace-only user message",
			messages: []chat.Message{
				{Role: chat.RoleUser, Content: "   \n\t  "},
			},
			want: "Conversation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveTitle(tt.messages))
		})
	}
}

func TestDeriveTitle_CapsAtEightyRunes(t *testing.T) {
	long := strings.Repeat("é", 200)
	got := deriveTitle([]chat.Message{{Role: chat.RoleUser, Content: long}})

	assert.Equal(t, 80, len([]rune(got)))
	assert.Equal(t, strings.Repeat("é", 80), got)
}
