// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory Persister for tests.
type memoryStore struct {
	records []Record
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryStore) Load() ([]Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.records == nil {
		return nil, ErrNoHistory
	}
	return m.records, nil
}

func (m *memoryStore) Save(records []Record) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = records
	return nil
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		m := NewUserMessage("hi")
		if !strings.HasPrefix(m.ID, "msg_") {
			t.Fatalf("ID = %q, want msg_ prefix", m.ID)
		}
		if seen[m.ID] {
			t.Fatalf("duplicate ID %q", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestMessage_WithContext(t *testing.T) {
	m := NewAssistantMessage("x").WithContext("pricing", "", "pricing", "business")
	if len(m.Context) != 2 {
		t.Fatalf("Context = %v, want 2 unique tags", m.Context)
	}
	if !m.HasContext("business") {
		t.Error("HasContext(business) = false, want true")
	}
}

func TestMessage_Attachments(t *testing.T) {
	tests := []struct {
		a    Attachment
		want AttachmentKind
	}{
		{LocationCard{Address: "1 Main St"}, AttachmentLocation},
		{CalculatorPrompt{}, AttachmentCalculator},
		{SchedulerPrompt{}, AttachmentScheduler},
	}
	for _, tc := range tests {
		m := NewAssistantMessage("x").WithAttachment(tc.a)
		if m.Attachment.Kind() != tc.want {
			t.Errorf("Kind() = %s, want %s", m.Attachment.Kind(), tc.want)
		}
	}
}

func TestMessage_Preview(t *testing.T) {
	m := NewUserMessage("first line that is long\nsecond")
	if got := m.Preview(10); got != "first l..." {
		t.Errorf("Preview(10) = %q", got)
	}
	if got := m.Preview(100); got != "first line that is long" {
		t.Errorf("Preview(100) = %q", got)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"en", LanguageEnglish, false},
		{"AR", LanguageArabic, false},
		{" fr ", LanguageFrench, false},
		{"", DefaultLanguage, false},
		{"de", "", true},
	}
	for _, tc := range tests {
		got, err := ParseLanguage(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLanguage(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if !LanguageArabic.RightToLeft() || LanguageFrench.RightToLeft() {
		t.Error("only Arabic should be right to left")
	}
}

// =============================================================================
// CONVERSATION STORE TESTS
// =============================================================================

func TestNewConversation_SeedsWelcome(t *testing.T) {
	store := &memoryStore{}
	conv := NewConversation(store, "Welcome!", nil)

	if conv.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", conv.Len())
	}
	first := conv.Messages()[0]
	if first.Role != RoleAssistant || first.Text != "Welcome!" {
		t.Errorf("seed = %+v, want assistant welcome", first)
	}
	if len(store.records) != 1 {
		t.Errorf("persisted %d records, want 1", len(store.records))
	}
}

func TestNewConversation_CorruptFallsBack(t *testing.T) {
	store := &memoryStore{loadErr: ErrCorruptHistory}
	conv := NewConversation(store, "Welcome!", nil)
	if conv.Len() != 1 || conv.Last().Text != "Welcome!" {
		t.Errorf("corrupt history should yield a fresh welcome conversation, got %d messages", conv.Len())
	}
}

func TestNewConversation_ReadFailureKeepsSavedHistory(t *testing.T) {
	saved := []Record{{ID: "msg_1", Text: "Hi", IsUser: true}}
	readErr := errors.New("read history: permission denied")
	store := &memoryStore{records: saved, loadErr: readErr}

	conv := NewConversation(store, "Welcome!", nil)

	require.Equal(t, 1, conv.Len())
	require.Equal(t, "Welcome!", conv.Last().Text)
	require.ErrorIs(t, conv.LoadErr(), readErr)
	require.Equal(t, 0, store.saves, "welcome must not be saved over unread history")

	require.NoError(t, conv.Append(NewUserMessage("Still here?")))
	conv.Clear("Welcome!")
	require.Equal(t, 0, store.saves)
	require.Equal(t, saved, store.records)
}

func TestNewConversation_CorruptHasNoLoadErr(t *testing.T) {
	store := &memoryStore{loadErr: fmt.Errorf("decode: %w", ErrCorruptHistory)}
	conv := NewConversation(store, "Welcome!", nil)
	require.NoError(t, conv.LoadErr())
	require.Equal(t, 1, store.saves)
}

func TestNewConversation_InconsistentRecordsFallBack(t *testing.T) {
	store := &memoryStore{records: []Record{
		{ID: "a", Text: "root"},
		{ID: "b", Text: "reply", ThreadID: "a"},
		{ID: "c", Text: "nested", ThreadID: "b"},
	}}
	conv := NewConversation(store, "Welcome!", nil)
	if conv.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after nested-thread history", conv.Len())
	}
}

func TestNewConversation_LoadsHistory(t *testing.T) {
	now := time.Now()
	store := &memoryStore{records: []Record{
		{ID: "a", Text: "hello", Timestamp: now},
		{ID: "b", Text: "question", IsUser: true, Timestamp: now.Add(time.Second), ThreadID: "a"},
		{Text: "legacy record without id", IsUser: true, Timestamp: now.Add(2 * time.Second)},
	}}
	conv := NewConversation(store, "Welcome!", nil)

	if conv.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", conv.Len())
	}
	root, _ := conv.Get("a")
	if root.ReplyCount != 1 {
		t.Errorf("root.ReplyCount = %d, want 1", root.ReplyCount)
	}
	if conv.Last().ID == "" {
		t.Error("record without id should get a generated id")
	}
}

func TestConversation_AppendReplyCount(t *testing.T) {
	conv := NewConversation(&memoryStore{}, "Welcome!", nil)
	root := NewUserMessage("root")
	if err := conv.Append(root); err != nil {
		t.Fatalf("Append(root) error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := conv.Append(NewAssistantMessage("reply").WithParent(root.ID)); err != nil {
			t.Fatalf("Append(reply) error = %v", err)
		}
	}

	got, _ := conv.Get(root.ID)
	if got.ReplyCount != 3 {
		t.Errorf("ReplyCount = %d, want 3", got.ReplyCount)
	}
	threads := conv.Threads()
	if threads[root.ID].Len() != 3 {
		t.Errorf("thread len = %d, want 3", threads[root.ID].Len())
	}
	if len(conv.TopLevel()) != 2 {
		t.Errorf("TopLevel() = %d messages, want 2", len(conv.TopLevel()))
	}
}

func TestConversation_AppendRejectsBadParents(t *testing.T) {
	conv := NewConversation(&memoryStore{}, "Welcome!", nil)
	root := NewUserMessage("root")
	_ = conv.Append(root)
	reply := NewAssistantMessage("reply").WithParent(root.ID)
	_ = conv.Append(reply)

	err := conv.Append(NewUserMessage("nested").WithParent(reply.ID))
	if !errors.Is(err, ErrNestedThread) {
		t.Errorf("nested reply error = %v, want ErrNestedThread", err)
	}
	err = conv.Append(NewUserMessage("orphan").WithParent("msg_missing"))
	if !errors.Is(err, ErrUnknownParent) {
		t.Errorf("orphan reply error = %v, want ErrUnknownParent", err)
	}
	err = conv.Append(&Message{ID: root.ID, Role: RoleUser, Text: "dup"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate id error = %v, want ErrDuplicateID", err)
	}
}

func TestConversation_TimestampsNonDecreasing(t *testing.T) {
	conv := NewConversation(&memoryStore{}, "Welcome!", nil)
	past := NewUserMessage("from the past")
	past.Timestamp = time.Now().Add(-time.Hour)
	_ = conv.Append(past)

	msgs := conv.Messages()
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatalf("timestamp %d is before timestamp %d", i, i-1)
		}
	}
}

func TestConversation_Clear(t *testing.T) {
	conv := NewConversation(&memoryStore{}, "Welcome!", nil)
	root := NewUserMessage("root")
	_ = conv.Append(root)
	_ = conv.Append(NewAssistantMessage("reply").WithParent(root.ID))

	conv.Clear("Bienvenue !")

	if conv.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", conv.Len())
	}
	if conv.Last().Text != "Bienvenue !" {
		t.Errorf("welcome = %q", conv.Last().Text)
	}
	if len(conv.Threads()) != 0 {
		t.Errorf("Threads() = %d, want 0", len(conv.Threads()))
	}
}

func TestConversation_ReadsAreCopies(t *testing.T) {
	conv := NewConversation(&memoryStore{}, "Welcome!", nil)
	m := conv.Messages()[0]
	m.ReplyCount = 42
	m.Text = "mutated"
	if got := conv.Messages()[0]; got.ReplyCount != 0 || got.Text != "Welcome!" {
		t.Errorf("store was mutated through a read accessor: %+v", got)
	}
}

func TestConversation_Replace(t *testing.T) {
	conv := NewConversation(&memoryStore{}, "Welcome!", nil)
	root := &Message{ID: "r", Role: RoleUser, Text: "root", ReplyCount: 9}
	reply := &Message{ID: "x", Role: RoleAssistant, Text: "reply", ParentID: "r"}

	if err := conv.Replace([]*Message{root, reply}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, _ := conv.Get("r")
	if got.ReplyCount != 1 {
		t.Errorf("ReplyCount = %d, want 1 (derived, not copied)", got.ReplyCount)
	}

	bad := []*Message{{ID: "y", Role: RoleUser, Text: "orphan", ParentID: "nope"}}
	if err := conv.Replace(bad); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("Replace(orphan) error = %v, want ErrUnknownParent", err)
	}
	if conv.Len() != 2 {
		t.Errorf("failed Replace must not modify the store, Len() = %d", conv.Len())
	}
}

func TestConversation_SaveFailureKeepsMemory(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	conv := NewConversation(store, "Welcome!", nil)
	if err := conv.Append(NewUserMessage("still here")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if conv.Len() != 2 {
		t.Errorf("Len() = %d, want 2", conv.Len())
	}
}

func TestConversation_Recent(t *testing.T) {
	conv := NewConversation(&memoryStore{}, "Welcome!", nil)
	for i := 0; i < 7; i++ {
		_ = conv.Append(NewUserMessage("m"))
	}
	if got := len(conv.Recent(5)); got != 5 {
		t.Errorf("Recent(5) = %d messages", got)
	}
	if got := len(conv.Recent(50)); got != 8 {
		t.Errorf("Recent(50) = %d messages, want 8", got)
	}
	if conv.Recent(0) != nil {
		t.Error("Recent(0) should be nil")
	}
}

func TestRecords_RoundTripThreads(t *testing.T) {
	root := &Message{ID: "r", Role: RoleAssistant, Text: "root"}
	reply := &Message{ID: "x", Role: RoleUser, Text: "reply", ParentID: "r", Context: []string{"support"}}

	records := ToRecords([]*Message{root, reply})
	if records[1].ThreadID != "r" || !records[1].IsUser {
		t.Fatalf("record = %+v", records[1])
	}
	msgs, err := FromRecords(records)
	if err != nil {
		t.Fatalf("FromRecords() error = %v", err)
	}
	if msgs[0].ReplyCount != 1 || msgs[1].Role != RoleUser {
		t.Errorf("rebuilt = %+v %+v", msgs[0], msgs[1])
	}
}
