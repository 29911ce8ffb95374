// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the chat history to files and reads it back.
//
// # Key Types
//
//   - Exporter: Format-specific renderer with extension and MIME type
//   - Options: Title, output directory, timestamps and time zone
//
// # Supported Formats
//
//   - Text: One line per message with role and local timestamp
//   - Markdown: Headings per message; link annotations become links
//   - HTML: Standalone page, right to left for Arabic
//   - JSON: The persisted record array; the only format Import reads
//
// # Usage
//
//	exp, err := export.ForFormat("md", nil)
//	path, err := export.ExportToFile(conv.Messages(), exp, nil)
//
//	msgs, err := export.Import(data)
//	err = conv.Replace(msgs)
package export
