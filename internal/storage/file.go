// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/util"
)

// FileBackend stores the history as one JSON file.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend creates a backend writing <dir>/apex-chat-history.json.
// The directory is created if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	return &FileBackend{path: filepath.Join(dir, model.HistoryKey+".json")}, nil
}

// Load reads the saved records.
func (b *FileBackend) Load() ([]model.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, model.ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return decodeRecords(data)
}

// Save replaces the file contents atomically.
func (b *FileBackend) Save(records []model.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := util.AtomicWriteFile(b.path, data, 0600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Clear deletes the history file.
func (b *FileBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

// Location returns the history file path.
func (b *FileBackend) Location() string {
	return b.path
}

// Close is a no-op.
func (b *FileBackend) Close() error {
	return nil
}
