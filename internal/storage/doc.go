// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides persistence backends for the widget conversation.
//
// Every backend keeps a single value under model.HistoryKey: the JSON array
// of model.Record values. A backend satisfies model.Persister, so a
// conversation can be opened on any of them.
//
// # Key Types
//
//   - Backend: model.Persister plus Clear, Location and Close
//   - FileBackend: JSON file written atomically
//   - SQLiteBackend: Key/value table in a pure Go SQLite database
//   - MemoryBackend: Process-local store for tests and --no-history runs
//
// # Usage
//
//	store, err := storage.Open(storage.KindFile, "~/.apexchat")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//	conv := model.NewConversation(store, welcome, logger)
//
// # Storage Location
//
// The file backend writes <dir>/apex-chat-history.json. The SQLite backend
// writes <dir>/apex-chat.db.
package storage
