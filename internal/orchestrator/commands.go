// ABOUTME: Inbound command vocabulary and dispatch
// ABOUTME: JSON wire form so any transport (socket, IPC, in-process) can carry it

package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2389/parley/internal/store"
)

// Command types accepted by HandleCommand. Unrecognized types are ignored
// silently.
const (
	CmdUserMessage    = "user_message"
	CmdReset          = "reset"
	CmdCancel         = "cancel"
	CmdHistoryRefresh = "history_refresh"
	CmdHistoryClear   = "history_clear"
	CmdHistoryDelete  = "history_delete"
	CmdHistoryLoad    = "history_load"
	CmdHistorySave    = "history_save"
	CmdHistoryNewChat = "history_new_chat"
)

// Command is one inbound UI-originated command.
type Command struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	ID      string `json:"id,omitempty"`
}

// DecodeCommand parses the JSON wire form of a command.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decoding command: %w", err)
	}
	return cmd, nil
}

// HandleCommand dispatches one inbound command. Store faults are returned
// to the caller, except a load of a missing conversation, which is reported
// as a logged no-op so live state is never corrupted by a stale id.
func (o *Orchestrator) HandleCommand(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case CmdUserMessage:
		o.SubmitUserText(cmd.Content)
		return nil

	case CmdReset:
		o.Reset()
		return nil

	case CmdCancel:
		o.Cancel()
		return nil

	case CmdHistoryRefresh:
		return o.RefreshIndex(ctx)

	case CmdHistoryClear:
		return o.ClearHistory(ctx)

	case CmdHistoryDelete:
		if cmd.ID == "" {
			return o.RefreshIndex(ctx)
		}
		return o.Delete(ctx, cmd.ID)

	case CmdHistoryLoad:
		if cmd.ID == "" {
			return nil
		}
		err := o.Load(ctx, cmd.ID)
		if errors.Is(err, store.ErrNotFound) {
			o.logger.Warn("load of missing conversation ignored", "id", cmd.ID)
			return nil
		}
		return err

	case CmdHistorySave:
		return o.Save(ctx)

	case CmdHistoryNewChat:
		return o.NewChat(ctx)

	default:
		o.logger.Debug("ignoring unrecognized command", "type", cmd.Type)
		return nil
	}
}
