// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice provides speech input for the chat widget.
//
// A Recognizer starts a Session for one utterance. The session runs on its
// own goroutine and reports progress only through its Events channel: zero
// or more EventPartial values, then exactly one EventFinal or EventError,
// then the channel is closed. Consumers apply events on their own loop.
//
// # Key Types
//
//   - Recognizer: Availability probe plus Start
//   - Session: One utterance; Stop ends it early and keeps what was heard
//   - Event: Partial transcript, final transcript, or categorized error
//   - CommandRecognizer: Runs an external speech-to-text command
//
// CommandRecognizer treats every stdout line as the transcript so far; the
// last line at exit is the final transcript.
package voice
