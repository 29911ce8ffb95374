// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jeranaias/apexchat/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes the persisted record array, so an export can be
// imported again. Options do not affect the output.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts the messages to JSON.
func (e *JSONExporter) Export(msgs []*model.Message) ([]byte, error) {
	if err := checkMessages(msgs); err != nil {
		return nil, err
	}
	return json.MarshalIndent(model.ToRecords(msgs), "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// =============================================================================
// IMPORT
// =============================================================================

// Import parses a JSON export. Unknown fields are rejected; thread links
// are validated.
func Import(data []byte) ([]*model.Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []model.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse history: %w", ErrEmpty)
	}
	msgs, err := model.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return msgs, nil
}
