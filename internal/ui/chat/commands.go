// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/apexchat/internal/export"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/voice"
	"github.com/jeranaias/apexchat/internal/widget"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// RunReplyCmd runs a pending reply off the update loop. The upstream call
// gets ctx as is; no deadline is added.
func RunReplyCmd(ctx context.Context, p *widget.PendingReply) tea.Cmd {
	return func() tea.Msg {
		p.Run(ctx)
		return ReplyMsg{Pending: p}
	}
}

// WaitVoiceCmd reads the next event of a voice session.
func WaitVoiceCmd(events <-chan voice.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return voiceClosedMsg{}
		}
		return VoiceEventMsg{Event: ev, events: events}
	}
}

// expireVoiceErrorCmd fires once the voice error expiry has passed.
func expireVoiceErrorCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Millisecond
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return VoiceErrorExpiredMsg{}
	})
}

// ExportCmd writes the conversation to a file in the given format.
func ExportCmd(msgs []*model.Message, format string, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return ExportedMsg{Err: err}
		}
		path, err := export.ExportToFile(msgs, exporter, opts)
		return ExportedMsg{Path: path, Err: err}
	}
}
