// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/textproc"
)

// TextExporter writes one block per message:
//
//	[2025-03-01 09:30:00] You: What does a migration cost?
//
// Thread replies are indented.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a new plain text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export converts the messages to plain text. Link annotations are reduced
// to their display text.
func (e *TextExporter) Export(msgs []*model.Message) ([]byte, error) {
	if err := checkMessages(msgs); err != nil {
		return nil, err
	}

	var sb strings.Builder
	loc := e.options.location()
	for _, m := range msgs {
		indent := ""
		if m.IsReply() {
			indent = "    "
		}
		sb.WriteString(indent)
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("[%s] ", formatTimestamp(m.Timestamp, loc)))
		}
		sb.WriteString(roleLabel(m))
		sb.WriteString(": ")

		text := textproc.StripLinks(m.Text)
		sb.WriteString(strings.ReplaceAll(text, "\n", "\n"+indent+"  "))
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for plain text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for plain text.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}
