// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// PERSISTED RECORDS
// =============================================================================

// HistoryKey is the fixed storage key the conversation is saved under.
const HistoryKey = "apex-chat-history"

// Errors reported by persistence backends.
var (
	// ErrNoHistory means nothing has been saved under HistoryKey yet.
	ErrNoHistory = errors.New("no saved history")

	// ErrCorruptHistory means the saved history could not be decoded.
	ErrCorruptHistory = errors.New("saved history is corrupt")
)

// Record is the persisted form of a message. Text, IsUser and Timestamp are
// always written; the remaining fields are optional so that histories saved
// without them still load.
type Record struct {
	ID        string    `json:"id,omitempty"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
	ThreadID  string    `json:"threadId,omitempty"`
	Context   []string  `json:"context,omitempty"`
}

// ToRecords converts messages to their persisted form. Attachments and reply
// counts are not persisted; reply counts are derived again on load.
func ToRecords(msgs []*Message) []Record {
	records := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, Record{
			ID:        m.ID,
			Text:      m.Text,
			IsUser:    m.IsUser(),
			Timestamp: m.Timestamp,
			ThreadID:  m.ParentID,
			Context:   append([]string(nil), m.Context...),
		})
	}
	return records
}

// FromRecords rebuilds messages from persisted records. Records without an
// ID get a fresh one. Duplicate IDs, replies to unknown messages and nested
// threads are reported as ErrCorruptHistory.
func FromRecords(records []Record) ([]*Message, error) {
	msgs := make([]*Message, 0, len(records))
	seen := make(map[string]*Message, len(records))

	for i, r := range records {
		role := RoleAssistant
		if r.IsUser {
			role = RoleUser
		}
		id := r.ID
		if id == "" {
			id = NewID()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q: %w", i, id, ErrCorruptHistory)
		}
		m := &Message{
			ID:        id,
			Role:      role,
			Text:      r.Text,
			Timestamp: r.Timestamp,
			ParentID:  r.ThreadID,
			Context:   append([]string(nil), r.Context...),
		}
		seen[id] = m
		msgs = append(msgs, m)
	}

	if err := recountReplies(msgs, seen); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptHistory)
	}
	return msgs, nil
}
