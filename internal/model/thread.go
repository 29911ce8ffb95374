// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

// =============================================================================
// THREADS
// =============================================================================

// Threading errors.
var (
	// ErrUnknownParent is returned when a reply names a message that is not
	// in the conversation.
	ErrUnknownParent = errors.New("thread parent not found")

	// ErrNestedThread is returned when a reply names another reply as its
	// parent. Threads are a single level deep.
	ErrNestedThread = errors.New("replies cannot have replies")
)

// Thread is a top-level message together with its replies, in append order.
type Thread struct {
	ParentID string
	Replies  []*Message

	// Expanded is view state; it is never persisted.
	Expanded bool
}

// Len returns the number of replies in the thread.
func (t *Thread) Len() int {
	return len(t.Replies)
}

// BuildThreads derives the thread index from a message list. Only parents
// with at least one reply appear in the result.
func BuildThreads(msgs []*Message) map[string]*Thread {
	threads := make(map[string]*Thread)
	for _, m := range msgs {
		if m.ParentID == "" {
			continue
		}
		t, ok := threads[m.ParentID]
		if !ok {
			t = &Thread{ParentID: m.ParentID}
			threads[m.ParentID] = t
		}
		t.Replies = append(t.Replies, m)
	}
	return threads
}

// TopLevel returns the messages that are not replies, in order.
func TopLevel(msgs []*Message) []*Message {
	out := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ParentID == "" {
			out = append(out, m)
		}
	}
	return out
}

// recountReplies resets every ReplyCount from the ParentID links.
func recountReplies(msgs []*Message, byID map[string]*Message) error {
	for _, m := range msgs {
		m.ReplyCount = 0
	}
	for _, m := range msgs {
		if m.ParentID == "" {
			continue
		}
		parent, ok := byID[m.ParentID]
		if !ok {
			return fmt.Errorf("message %s: %w", m.ID, ErrUnknownParent)
		}
		if parent.ParentID != "" {
			return fmt.Errorf("message %s: %w", m.ID, ErrNestedThread)
		}
		parent.ReplyCount++
	}
	return nil
}
