// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the chat widget.
type KeyMap struct {
	Submit      key.Binding
	Cancel      key.Binding
	Quit        key.Binding
	Help        key.Binding
	PrevMessage key.Binding
	NextMessage key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	NextChip    key.Binding
	PrevChip    key.Binding
	Reply       key.Binding
	Thread      key.Binding
	Voice       key.Binding
	Language    key.Binding
	Calculator  key.Binding
	Scheduler   key.Binding
	Export      key.Binding
	Clear       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		PrevMessage: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "select previous"),
		),
		NextMessage: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "select next"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		NextChip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next suggestion"),
		),
		PrevChip: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous suggestion"),
		),
		Reply: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "reply in thread"),
		),
		Thread: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "expand thread"),
		),
		Voice: key.NewBinding(
			key.WithKeys("alt+v"),
			key.WithHelp("M-v", "voice input"),
		),
		Language: key.NewBinding(
			key.WithKeys("alt+l"),
			key.WithHelp("M-l", "switch language"),
		),
		Calculator: key.NewBinding(
			key.WithKeys("alt+c"),
			key.WithHelp("M-c", "price calculator"),
		),
		Scheduler: key.NewBinding(
			key.WithKeys("alt+s"),
			key.WithHelp("M-s", "book consultation"),
		),
		Export: key.NewBinding(
			key.WithKeys("alt+e"),
			key.WithHelp("M-e", "export"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear chat"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Reply, k.Voice, k.Language, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped for the help screen.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.NextChip, k.PrevChip},
		{k.PrevMessage, k.NextMessage, k.PageUp, k.PageDown},
		{k.Reply, k.Thread, k.Voice, k.Language},
		{k.Calculator, k.Scheduler, k.Export, k.Clear},
		{k.Help, k.Quit},
	}
}
