// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/apexchat/internal/model"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteBackend stores the history in a key/value table.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (or creates) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		kvSchema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initialize database: %w", err)
		}
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

// Load reads the saved records.
func (b *SQLiteBackend) Load() ([]model.Record, error) {
	var value string
	err := b.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, model.HistoryKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return decodeRecords([]byte(value))
}

// Save upserts the history row.
func (b *SQLiteBackend) Save(records []model.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	_, err = b.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		model.HistoryKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Clear deletes the history row.
func (b *SQLiteBackend) Clear() error {
	if _, err := b.db.Exec(`DELETE FROM kv WHERE key = ?`, model.HistoryKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Location returns the database path.
func (b *SQLiteBackend) Location() string {
	return b.path
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
