// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/apexchat/internal/model"
)

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Kinds returns every supported backend kind.
func Kinds() []Kind {
	return []Kind{KindFile, KindSQLite, KindMemory}
}

// ErrUnknownKind is returned by Open for an unsupported backend kind.
var ErrUnknownKind = errors.New("unknown history backend")

// Backend is a conversation persister that can also be wiped and closed.
type Backend interface {
	model.Persister

	// Clear removes the saved history. Clearing an empty store is not an
	// error.
	Clear() error

	// Location describes where the history lives, for display.
	Location() string

	// Close releases held resources.
	Close() error
}

// =============================================================================
// FACTORY
// =============================================================================

// Open creates the backend of the given kind rooted at dir. A leading "~"
// in dir expands to the home directory. An empty dir uses DefaultDir.
func Open(kind Kind, dir string) (Backend, error) {
	if kind == KindMemory {
		return NewMemoryBackend(), nil
	}

	dir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindFile, "":
		return NewFileBackend(dir)
	case KindSQLite:
		return NewSQLiteBackend(filepath.Join(dir, "apex-chat.db"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// DefaultDir returns ~/.apexchat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".apexchat"), nil
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		return DefaultDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

// =============================================================================
// ENCODING
// =============================================================================

// encodeRecords returns the stored JSON form of records.
func encodeRecords(records []model.Record) ([]byte, error) {
	if records == nil {
		records = []model.Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// decodeRecords parses stored JSON. Anything other than a record array is
// reported as model.ErrCorruptHistory.
func decodeRecords(data []byte) ([]model.Record, error) {
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptHistory, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: history is not an array", model.ErrCorruptHistory)
	}
	return records, nil
}
