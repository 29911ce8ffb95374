// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"sync"

	"github.com/jeranaias/apexchat/internal/model"
)

// MemoryBackend keeps the encoded history in memory. Records go through the
// same JSON encoding as the other backends.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load decodes the saved records.
func (b *MemoryBackend) Load() ([]model.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, model.ErrNoHistory
	}
	return decodeRecords(b.data)
}

// Save encodes and keeps records.
func (b *MemoryBackend) Save(records []model.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.data = data
	b.mu.Unlock()
	return nil
}

// SetRaw stores raw bytes as the saved value.
func (b *MemoryBackend) SetRaw(data []byte) {
	b.mu.Lock()
	b.data = append([]byte(nil), data...)
	b.mu.Unlock()
}

// Clear drops the saved value.
func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	b.data = nil
	b.mu.Unlock()
	return nil
}

// Location returns "memory".
func (b *MemoryBackend) Location() string {
	return "memory"
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}
