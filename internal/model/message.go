// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the accepted roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Apex Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// CONTEXT TAGS
// =============================================================================

// Well-known context tags attached by canned flows and failure handling.
// Topic tags produced by the classifier ("technical", "business", ...) are
// stored alongside these.
const (
	TagPricing    = "pricing"
	TagScheduling = "scheduling"
	TagLocation   = "location"
	TagError      = "error"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single chat message.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Text string `json:"text"`

	// Threading. ParentID is empty for top-level messages.
	ParentID   string `json:"parent_id,omitempty"`
	ReplyCount int    `json:"reply_count"`

	// Topic labels
	Context []string `json:"context,omitempty"`

	// Optional interactive payload (nil for a plain message)
	Attachment Attachment `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, text string) *Message {
	return &Message{
		ID:        NewID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) *Message {
	return NewMessage(RoleUser, text)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(text string) *Message {
	return NewMessage(RoleAssistant, text)
}

// NewID returns a fresh, never-reused message identifier.
func NewID() string {
	return "msg_" + uuid.NewString()
}

// IsUser reports whether the message was written by the user.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsReply reports whether the message belongs to a thread.
func (m *Message) IsReply() bool {
	return m.ParentID != ""
}

// WithContext appends topic tags, skipping empty and duplicate labels.
func (m *Message) WithContext(tags ...string) *Message {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || m.HasContext(tag) {
			continue
		}
		m.Context = append(m.Context, tag)
	}
	return m
}

// WithAttachment sets the interactive payload, replacing any previous one.
func (m *Message) WithAttachment(a Attachment) *Message {
	m.Attachment = a
	return m
}

// WithParent places the message inside the thread rooted at parentID.
func (m *Message) WithParent(parentID string) *Message {
	m.ParentID = parentID
	return m
}

// HasContext reports whether the message carries the given tag.
func (m *Message) HasContext(tag string) bool {
	for _, t := range m.Context {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no mutable slices with m.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	if m.Context != nil {
		c.Context = append([]string(nil), m.Context...)
	}
	return &c
}

// Preview returns the first line of the message, truncated to maxLen runes.
func (m *Message) Preview(maxLen int) string {
	line := m.Text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	runes := []rune(line)
	if maxLen > 3 && len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return line
}
