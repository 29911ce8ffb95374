// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/apexchat/internal/voice"
	"github.com/jeranaias/apexchat/internal/widget"
)

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyMsg carries a proxy reply whose Run has finished.
type ReplyMsg struct {
	Pending *widget.PendingReply
}

// =============================================================================
// VOICE MESSAGES
// =============================================================================

// VoiceEventMsg carries one event of the active voice session, together
// with the channel the next event is read from.
type VoiceEventMsg struct {
	Event  voice.Event
	events <-chan voice.Event
}

// voiceClosedMsg reports that a session channel closed.
type voiceClosedMsg struct{}

// VoiceErrorExpiredMsg asks for a redraw once a voice error has aged out.
type VoiceErrorExpiredMsg struct{}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportedMsg reports the result of an export.
type ExportedMsg struct {
	Path string
	Err  error
}
