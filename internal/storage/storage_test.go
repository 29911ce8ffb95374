// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/apexchat/internal/model"
)

func sampleRecords() []model.Record {
	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	return []model.Record{
		{ID: "a", Text: "Welcome", Timestamp: ts},
		{ID: "b", Text: "What is a quote?", IsUser: true, Timestamp: ts.Add(time.Minute), Context: []string{"pricing"}},
		{ID: "c", Text: "A quote is...", Timestamp: ts.Add(2 * time.Minute), ThreadID: "b"},
	}
}

// backends returns one fresh instance of every backend kind.
func backends(t *testing.T) map[Kind]Backend {
	t.Helper()
	out := make(map[Kind]Backend)
	for _, k := range Kinds() {
		b, err := Open(k, t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { b.Close() })
		out[k] = b
	}
	return out
}

// =============================================================================
// BACKEND CONTRACT TESTS
// =============================================================================

func TestBackends_EmptyLoad(t *testing.T) {
	for kind, b := range backends(t) {
		t.Run(string(kind), func(t *testing.T) {
			_, err := b.Load()
			if !errors.Is(err, model.ErrNoHistory) {
				t.Errorf("Load() error = %v, want ErrNoHistory", err)
			}
		})
	}
}

func TestBackends_SaveLoad(t *testing.T) {
	for kind, b := range backends(t) {
		t.Run(string(kind), func(t *testing.T) {
			want := sampleRecords()
			require.NoError(t, b.Save(want))

			got, err := b.Load()
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				require.Equal(t, want[i].ID, got[i].ID)
				require.Equal(t, want[i].Text, got[i].Text)
				require.Equal(t, want[i].IsUser, got[i].IsUser)
				require.Equal(t, want[i].ThreadID, got[i].ThreadID)
				require.True(t, want[i].Timestamp.Equal(got[i].Timestamp))
			}

			// Second save replaces the first.
			require.NoError(t, b.Save(want[:1]))
			got, err = b.Load()
			require.NoError(t, err)
			require.Len(t, got, 1)
		})
	}
}

func TestBackends_Clear(t *testing.T) {
	for kind, b := range backends(t) {
		t.Run(string(kind), func(t *testing.T) {
			require.NoError(t, b.Clear(), "clearing an empty store")
			require.NoError(t, b.Save(sampleRecords()))
			require.NoError(t, b.Clear())
			_, err := b.Load()
			require.ErrorIs(t, err, model.ErrNoHistory)
		})
	}
}

func TestBackends_ConversationRoundTrip(t *testing.T) {
	for kind, b := range backends(t) {
		t.Run(string(kind), func(t *testing.T) {
			conv := model.NewConversation(b, "Welcome!", nil)
			root := model.NewUserMessage("Tell me about cloud migration")
			require.NoError(t, conv.Append(root))
			require.NoError(t, conv.Append(model.NewAssistantMessage("Sure.").WithParent(root.ID)))

			reopened := model.NewConversation(b, "unused", nil)
			require.Equal(t, 3, reopened.Len())
			got, ok := reopened.Get(root.ID)
			require.True(t, ok)
			require.Equal(t, 1, got.ReplyCount)
		})
	}
}

// =============================================================================
// CORRUPTION TESTS
// =============================================================================

func TestFileBackend_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{{{"},
		{"object instead of array", `{"text":"x"}`},
		{"null", "null"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			b, err := NewFileBackend(dir)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(b.Location(), []byte(tc.data), 0600))

			_, err = b.Load()
			if !errors.Is(err, model.ErrCorruptHistory) {
				t.Errorf("Load() error = %v, want ErrCorruptHistory", err)
			}

			conv := model.NewConversation(b, "Welcome!", nil)
			if conv.Len() != 1 || conv.Last().Text != "Welcome!" {
				t.Errorf("corrupt file should yield a fresh welcome, got %d messages", conv.Len())
			}
		})
	}
}

func TestFileBackend_ReadFailureIsNotCorrupt(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	// A directory in place of the file cannot be read.
	require.NoError(t, os.Mkdir(b.Location(), 0700))

	_, err = b.Load()
	require.Error(t, err)
	if errors.Is(err, model.ErrCorruptHistory) || errors.Is(err, model.ErrNoHistory) {
		t.Errorf("Load() error = %v, want a plain read error", err)
	}

	conv := model.NewConversation(b, "Welcome!", nil)
	require.Error(t, conv.LoadErr())
	info, err := os.Stat(b.Location())
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestMemoryBackend_SetRaw(t *testing.T) {
	b := NewMemoryBackend()
	b.SetRaw([]byte(`[{"text":"legacy","isUser":true,"timestamp":"2025-01-01T00:00:00Z"}]`))
	records, err := b.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Empty(t, records[0].ID)
	require.True(t, records[0].IsUser)
}

func TestFileBackend_Location(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "apex-chat-history.json"), b.Location())

	require.NoError(t, b.Save(sampleRecords()))
	info, err := os.Stat(b.Location())
	require.NoError(t, err)
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		t.Errorf("history file mode = %v, want owner-only", perm)
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	require.ErrorIs(t, err, ErrUnknownKind)
}
