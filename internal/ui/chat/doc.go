// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the terminal chat widget.
//
// The Model is a Bubble Tea model that drives a widget.Controller. It
// renders the conversation with threads, attachment cards and quick reply
// chips, and hosts the price calculator and consultation scheduler forms.
//
// # Concurrency
//
// The controller is only touched from Update. Proxy calls run as tea.Cmds
// that execute PendingReply.Run and hand the finished reply back as a
// message, which Update resolves. Voice events are read from the session
// channel one at a time, each read a separate tea.Cmd.
//
// # Usage
//
//	ctrl := widget.New(widget.Options{Store: store, Responder: client})
//	m := chat.New(ctrl, chat.Options{Theme: styles.NewTheme()})
//	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
package chat
