// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/textproc"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts the messages to Markdown.
func (e *MarkdownExporter) Export(msgs []*model.Message) ([]byte, error) {
	if err := checkMessages(msgs); err != nil {
		return nil, err
	}

	var sb strings.Builder
	loc := e.options.location()

	// YAML frontmatter with metadata
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(e.options.Title)))
	sb.WriteString(fmt.Sprintf("messages: %d\n", len(msgs)))
	sb.WriteString(fmt.Sprintf("started: %s\n", msgs[0].Timestamp.In(loc).Format(time.RFC3339)))
	sb.WriteString("generator: apexchat\n")
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(e.options.Title)))

	for i, m := range msgs {
		heading := "###"
		if m.IsReply() {
			heading = "####"
		}
		label := escapeMarkdown(roleLabel(m))
		if m.IsReply() {
			label += " (reply)"
		}
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("%s %s <sub>%s</sub>\n\n", heading, label, formatTimestamp(m.Timestamp, loc)))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s\n\n", heading, label))
		}

		body := markdownLinks(m.Text)
		if m.IsReply() {
			body = "> " + strings.ReplaceAll(body, "\n", "\n> ")
		}
		sb.WriteString(body)
		sb.WriteString("\n\n")

		if len(m.Context) > 0 {
			sb.WriteString(fmt.Sprintf("<sub>Topics: %s</sub>\n\n", strings.Join(m.Context, ", ")))
		}
		if i < len(msgs)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from Apex Labs chat on %s*\n",
		time.Now().In(loc).Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// markdownLinks rewrites link annotations as Markdown links.
func markdownLinks(text string) string {
	var sb strings.Builder
	for _, seg := range textproc.Segments(strings.TrimSpace(text)) {
		if seg.Href == "" {
			sb.WriteString(seg.Text)
			continue
		}
		sb.WriteString(fmt.Sprintf("[%s](%s)", escapeMarkdown(seg.Text), seg.Href))
	}
	return sb.String()
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
