// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/textproc"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page with
// embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts the messages to HTML.
func (e *HTMLExporter) Export(msgs []*model.Message) ([]byte, error) {
	if err := checkMessages(msgs); err != nil {
		return nil, err
	}

	lang := e.options.Language
	if !lang.Valid() {
		lang = model.DefaultLanguage
	}
	dir := "ltr"
	if lang.RightToLeft() {
		dir = "rtl"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(fmt.Sprintf("<html lang=\"%s\" dir=\"%s\">\n", lang, dir))
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(e.options.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"apexchat\">\n")
	sb.WriteString(htmlCSS)
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString(fmt.Sprintf("    <h1>%s</h1>\n", html.EscapeString(e.options.Title)))
	sb.WriteString("    <main class=\"conversation\">\n")
	for _, m := range msgs {
		sb.WriteString(e.renderMessage(m))
	}
	sb.WriteString("    </main>\n")
	sb.WriteString(fmt.Sprintf("    <footer>Exported on %s</footer>\n",
		time.Now().In(e.options.location()).Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// renderMessage renders a single message.
func (e *HTMLExporter) renderMessage(m *model.Message) string {
	var sb strings.Builder

	class := "message " + html.EscapeString(string(m.Role)) + "-message"
	if m.IsReply() {
		class += " reply"
	}
	sb.WriteString(fmt.Sprintf("        <div class=\"%s\" id=\"%s\">\n", class, html.EscapeString(m.ID)))
	sb.WriteString("            <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"role-label\">%s</span>\n", html.EscapeString(roleLabel(m))))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("                <span class=\"timestamp\">%s</span>\n",
			formatTimestamp(m.Timestamp, e.options.location())))
	}
	sb.WriteString("            </div>\n")
	sb.WriteString("            <div class=\"message-content\">")
	sb.WriteString(formatContent(m.Text))
	sb.WriteString("</div>\n")
	sb.WriteString("        </div>\n")
	return sb.String()
}

// formatContent escapes text, renders link annotations as anchors and keeps
// line breaks.
func formatContent(text string) string {
	var sb strings.Builder
	for _, seg := range textproc.Segments(strings.TrimSpace(text)) {
		escaped := html.EscapeString(seg.Text)
		if seg.Href == "" {
			sb.WriteString(escaped)
			continue
		}
		sb.WriteString(fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(seg.Href), escaped))
	}
	return strings.ReplaceAll(sb.String(), "\n", "<br>\n")
}

const htmlCSS = `    <style>
        body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
        h1 { font-size: 1.4rem; }
        .message { border-radius: 12px; padding: 0.75rem 1rem; margin: 0.75rem 0; }
        .user-message { background: #e0e7ff; margin-inline-start: 15%; }
        .assistant-message { background: #f3f4f6; margin-inline-end: 15%; }
        .reply { margin-inline-start: 2.5rem; border-inline-start: 3px solid #6366f1; }
        .message-header { display: flex; justify-content: space-between; font-size: 0.8rem; color: #6b7280; margin-bottom: 0.25rem; }
        .role-label { font-weight: 600; }
        a { color: #4f46e5; }
        footer { margin-top: 2rem; font-size: 0.8rem; color: #9ca3af; }
    </style>
`
