// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package widget implements the chat widget controller.
//
// The Controller owns the conversation and every piece of widget state:
// the awaiting-response flag, the active reply parent, expanded threads,
// voice listening and the selected language. It is driven from a single
// goroutine and holds no locks.
//
// # Event Loop Contract
//
// Send appends the user message at once. Canned flows (scheduler,
// calculator) answer synchronously; everything else returns a PendingReply.
// The caller runs it off the loop and hands it back to Resolve:
//
//	p, err := ctrl.Send("What services do you offer?")
//	if p != nil {
//		go func() { p.Run(ctx); results <- p }()
//	}
//	...
//	msg, err := ctrl.Resolve(<-results)
//
// Voice sessions work the same way: StartVoice returns an event channel
// whose events go back into HandleVoiceEvent on the loop.
package widget
