// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcript.go - Plain terminal rendering of messages for line mode and
// `history show`.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/textproc"
)

// printMessage writes one message: a role line, the wrapped text and any
// attachment. Replies are indented under their parent.
func printMessage(w io.Writer, msg *model.Message, width int) {
	indent := ""
	if msg.ParentID != "" {
		indent = "    "
	}

	label := AssistantStyle.Render(msg.Role.DisplayName())
	if msg.IsUser() {
		label = UserStyle.Render(msg.Role.DisplayName())
	}
	stamp := DimStyle.Render(msg.Timestamp.Local().Format("15:04"))
	fmt.Fprintf(w, "%s%s %s\n", indent, label, stamp)

	body := WrapText(textproc.PlainText(msg.Text), width-len(indent))
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}

	if card := attachmentLines(msg.Attachment); len(card) > 0 {
		for _, line := range card {
			fmt.Fprintf(w, "%s  %s\n", indent, line)
		}
	}
	if msg.ReplyCount > 0 {
		fmt.Fprintf(w, "%s%s\n", indent, DimStyle.Render(english.Plural(msg.ReplyCount, "reply", "replies")))
	}
	fmt.Fprintln(w)
}

// attachmentLines renders an attachment as indented card lines.
func attachmentLines(a model.Attachment) []string {
	switch a := a.(type) {
	case model.LocationCard:
		lines := []string{SectionStyle.UnsetMarginTop().Render("Apex Labs Office"), a.Address}
		if a.MapURL != "" {
			lines = append(lines, DimStyle.Render(a.MapURL))
		}
		return lines
	case model.CalculatorPrompt:
		return []string{WarningStyle.Render("[Price Calculator]")}
	case model.SchedulerPrompt:
		return []string{WarningStyle.Render("[Book a Consultation]")}
	}
	return nil
}

// printTranscript writes every message in display order: each top-level
// message followed by its replies.
func printTranscript(w io.Writer, msgs []*model.Message, width int) {
	replies := make(map[string][]*model.Message)
	for _, m := range msgs {
		if m.ParentID != "" {
			replies[m.ParentID] = append(replies[m.ParentID], m)
		}
	}
	for _, m := range msgs {
		if m.ParentID != "" {
			continue
		}
		printMessage(w, m, width)
		for _, r := range replies[m.ID] {
			printMessage(w, r, width)
		}
	}
}
