// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrDuplicateID is returned when appending a message whose ID is taken.
var ErrDuplicateID = errors.New("message id already in conversation")

// Persister is the storage port the conversation saves through. Load returns
// ErrNoHistory when nothing was saved and ErrCorruptHistory (possibly
// wrapped) when the saved data cannot be decoded.
type Persister interface {
	Load() ([]Record, error)
	Save(records []Record) error
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Conversation is the ordered message list plus its derived thread index.
// Every mutation re-persists the full list.
//
// A Conversation is owned by a single goroutine and is not safe for
// concurrent use. Read accessors return copies so callers cannot break the
// reply-count invariant.
type Conversation struct {
	messages []*Message
	byID     map[string]*Message

	store  Persister
	logger *zap.Logger

	// loadErr is a load failure other than missing or corrupt history.
	// While set, nothing is saved so the history on disk survives.
	loadErr error
}

// NewConversation loads the saved history from store, or seeds the
// conversation with a single assistant welcome message when there is none
// or it is corrupt. Any other load failure also seeds the welcome, but the
// conversation then stays unsaved for its lifetime; see LoadErr. A nil
// logger disables logging.
func NewConversation(store Persister, welcome string, logger *zap.Logger) *Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Conversation{
		byID:   make(map[string]*Message),
		store:  store,
		logger: logger,
	}

	msgs, err := c.load()
	switch {
	case err == nil && len(msgs) > 0:
		c.set(msgs)
		c.logger.Debug("HISTORY_LOADED", zap.Int("messages", len(msgs)))
	case err == nil, errors.Is(err, ErrNoHistory):
		c.Clear(welcome)
	case errors.Is(err, ErrCorruptHistory):
		c.logger.Warn("HISTORY_CORRUPT", zap.Error(err))
		c.Clear(welcome)
	default:
		c.logger.Warn("HISTORY_UNAVAILABLE", zap.Error(err))
		c.loadErr = err
		c.set([]*Message{NewAssistantMessage(welcome)})
	}
	return c
}

func (c *Conversation) load() ([]*Message, error) {
	if c.store == nil {
		return nil, ErrNoHistory
	}
	records, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Append adds a message at the end of the conversation. A reply must name an
// existing top-level message. A timestamp earlier than the previous message
// is raised to keep timestamps non-decreasing.
func (c *Conversation) Append(msg *Message) error {
	if msg == nil {
		return errors.New("append: nil message")
	}
	m := msg.Clone()
	if m.ID == "" {
		m.ID = NewID()
	}
	if _, dup := c.byID[m.ID]; dup {
		return fmt.Errorf("append %s: %w", m.ID, ErrDuplicateID)
	}

	var parent *Message
	if m.ParentID != "" {
		p, ok := c.byID[m.ParentID]
		if !ok {
			return fmt.Errorf("append %s: %w", m.ID, ErrUnknownParent)
		}
		if p.ParentID != "" {
			return fmt.Errorf("append %s: %w", m.ID, ErrNestedThread)
		}
		parent = p
	}

	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	if n := len(c.messages); n > 0 && m.Timestamp.Before(c.messages[n-1].Timestamp) {
		m.Timestamp = c.messages[n-1].Timestamp
	}

	m.ReplyCount = 0
	c.messages = append(c.messages, m)
	c.byID[m.ID] = m
	if parent != nil {
		parent.ReplyCount++
	}

	msg.ID = m.ID
	msg.Timestamp = m.Timestamp
	c.persist()
	return nil
}

// Clear resets the conversation to a single assistant welcome message,
// dropping every thread.
func (c *Conversation) Clear(welcome string) {
	c.set([]*Message{NewAssistantMessage(welcome)})
	c.persist()
}

// Replace swaps in a whole message list, as done by history import. The
// list is validated and reply counts are derived again.
func (c *Conversation) Replace(msgs []*Message) error {
	if len(msgs) == 0 {
		return errors.New("replace: empty message list")
	}
	clones := make([]*Message, 0, len(msgs))
	byID := make(map[string]*Message, len(msgs))
	for _, m := range msgs {
		if m == nil {
			return errors.New("replace: nil message")
		}
		cm := m.Clone()
		if cm.ID == "" {
			cm.ID = NewID()
		}
		if _, dup := byID[cm.ID]; dup {
			return fmt.Errorf("replace %s: %w", cm.ID, ErrDuplicateID)
		}
		byID[cm.ID] = cm
		clones = append(clones, cm)
	}
	if err := recountReplies(clones, byID); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	c.messages = clones
	c.byID = byID
	c.clampTimestamps()
	c.persist()
	return nil
}

// set installs msgs without validation; callers guarantee consistency.
func (c *Conversation) set(msgs []*Message) {
	c.messages = msgs
	c.byID = make(map[string]*Message, len(msgs))
	for _, m := range msgs {
		c.byID[m.ID] = m
	}
	_ = recountReplies(c.messages, c.byID)
	c.clampTimestamps()
}

func (c *Conversation) clampTimestamps() {
	for i := 1; i < len(c.messages); i++ {
		if c.messages[i].Timestamp.Before(c.messages[i-1].Timestamp) {
			c.messages[i].Timestamp = c.messages[i-1].Timestamp
		}
	}
}

// persist saves the full list. Failures are logged; the in-memory
// conversation stays authoritative.
func (c *Conversation) persist() {
	if c.store == nil || c.loadErr != nil {
		return
	}
	if err := c.store.Save(ToRecords(c.messages)); err != nil {
		c.logger.Warn("HISTORY_SAVE_FAILED", zap.Error(err), zap.Int("messages", len(c.messages)))
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// LoadErr returns the error that kept the saved history from loading, or
// nil. Missing and corrupt history are not reported here.
func (c *Conversation) LoadErr() error {
	return c.loadErr
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of every message in order.
func (c *Conversation) Messages() []*Message {
	return cloneAll(c.messages)
}

// Recent returns copies of the last n messages in order.
func (c *Conversation) Recent(n int) []*Message {
	if n <= 0 {
		return nil
	}
	start := len(c.messages) - n
	if start < 0 {
		start = 0
	}
	return cloneAll(c.messages[start:])
}

// Last returns a copy of the most recent message, or nil if empty.
func (c *Conversation) Last() *Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1].Clone()
}

// Get returns a copy of the message with the given ID.
func (c *Conversation) Get(id string) (*Message, bool) {
	m, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// Threads derives the thread index from the current messages.
func (c *Conversation) Threads() map[string]*Thread {
	return BuildThreads(c.Messages())
}

// TopLevel returns copies of the messages that are not replies.
func (c *Conversation) TopLevel() []*Message {
	return TopLevel(c.Messages())
}

func cloneAll(msgs []*Message) []*Message {
	out := make([]*Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}
