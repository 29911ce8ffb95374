// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/textproc"
	"github.com/jeranaias/apexchat/internal/ui/styles"
	"github.com/jeranaias/apexchat/internal/util"
)

// bubbleChrome is the horizontal space a bubble's border and padding take.
const bubbleChrome = 6

// View implements tea.Model.
func (m Model) View() string {
	var main string
	switch m.mode {
	case ModeCalculator:
		main = m.calculator.view(m.theme, "Price Calculator")
	case ModeScheduler:
		main = m.scheduler.view(m.theme, "Book a Consultation")
	case ModeHelp:
		main = m.renderHelp()
	default:
		main = m.viewport.View()
	}

	parts := []string{m.renderHeader(), main}
	if m.mode == ModeChat {
		parts = append(parts, m.renderFooter()...)
	}
	parts = append(parts, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// refresh resizes the viewport around the surrounding chrome and
// re-renders the conversation.
func (m *Model) refresh() {
	chrome := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderStatusBar())
	for _, part := range m.renderFooter() {
		chrome += lipgloss.Height(part)
	}
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	w := m.width
	if w < 1 {
		w = 1
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.input.Width = max(10, w-6)

	m.viewport.SetContent(m.renderConversation())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// HEADER AND FOOTER
// =============================================================================

func (m Model) renderHeader() string {
	lang := m.ctrl.Language()
	title := m.theme.HeaderTitle.Render("Apex Labs")
	subtitle := m.theme.HeaderSubtitle.Render("AI Assistant")
	badge := m.theme.LanguageBadge.Render(lang.NativeName())
	return m.theme.Header.Render(title + "  " + subtitle + "  " + badge)
}

// renderFooter returns the sections below the conversation: banners,
// quick replies and the input.
func (m Model) renderFooter() []string {
	var parts []string
	cat := m.ctrl.Catalog()

	if parent, ok := m.ctrl.ReplyingTo(); ok {
		parts = append(parts, m.theme.ReplyBanner.Render(
			fmt.Sprintf("%s: %s  (esc to cancel)", cat.ReplyingTo, parent.Preview(40))))
	}
	if m.ctrl.Listening() {
		line := styles.StatusIndicators.Listening + " " + cat.Listening
		if t := m.ctrl.Transcript(); t != "" {
			line += " " + t
		}
		parts = append(parts, m.theme.VoiceBanner.Render(line))
	}
	if msg := m.ctrl.VoiceError(); msg != "" {
		parts = append(parts, m.theme.VoiceError.Render(styles.StatusIndicators.Error+" "+msg))
	}
	if m.ctrl.Awaiting() {
		parts = append(parts, m.spinner.View()+" "+m.theme.Thinking.Render(cat.Thinking))
	}
	if chips := m.renderQuickReplies(); chips != "" {
		parts = append(parts, chips)
	}
	parts = append(parts, m.theme.InputContainer.Render(m.input.View()))
	return parts
}

func (m Model) renderQuickReplies() string {
	chips := m.ctrl.QuickReplies()
	if len(chips) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(chips))
	for i, c := range chips {
		style := m.theme.Chip
		if i == m.chip {
			style = m.theme.ChipSelected
		}
		rendered = append(rendered, style.Render(c))
	}
	return lipgloss.NewStyle().MaxWidth(max(1, m.width)).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (m Model) renderStatusBar() string {
	if m.status != "" {
		return m.theme.StatusBar.Render(m.status)
	}
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		if b.Help().Key == m.keys.Voice.Help().Key && !m.ctrl.VoiceAvailable() {
			continue
		}
		hints = append(hints, m.theme.ShortcutKey.Render(b.Help().Key)+" "+m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	return m.theme.StatusBar.Render(strings.Join(hints, "  "))
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, group := range m.keys.FullHelp() {
		for _, k := range group {
			b.WriteString(fmt.Sprintf("%s %s\n",
				m.theme.ShortcutKey.Render(fmt.Sprintf("%-8s", k.Help().Key)),
				m.theme.ShortcutDesc.Render(k.Help().Desc)))
		}
		b.WriteString("\n")
	}
	return m.theme.FormBox.Render(strings.TrimRight(b.String(), "\n"))
}

// =============================================================================
// CONVERSATION
// =============================================================================

func (m Model) renderConversation() string {
	var b strings.Builder
	top := m.ctrl.TopLevel()
	for i, msg := range top {
		selected := i == m.selected
		b.WriteString(m.renderMessage(msg, selected, false))
		b.WriteString("\n")

		thread := m.ctrl.Thread(msg.ID)
		if thread.Len() == 0 {
			continue
		}
		if !thread.Expanded {
			b.WriteString(m.align(msg.IsUser(), m.theme.ReplyCount.Render(replyLabel(thread.Len())+"  (C-t)")))
			b.WriteString("\n")
			continue
		}
		for _, reply := range thread.Replies {
			b.WriteString(m.renderMessage(reply, false, true))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderMessage(msg *model.Message, selected, reply bool) string {
	width := m.width
	if reply {
		width -= 6
	}
	inner := styles.BubbleWidth(width) - bubbleChrome
	if inner < 10 {
		inner = 10
	}

	body := strings.Join(util.WrapWidth(textproc.PlainText(msg.Text), inner), "\n")
	if card := m.renderAttachment(msg.Attachment, inner); card != "" {
		body += "\n" + card
	}
	bubble := m.theme.Bubble(msg.IsUser(), width).Render(body)
	stamp := m.theme.Timestamp.Render(msg.Role.DisplayName() + " " + msg.Timestamp.Local().Format("15:04"))
	out := lipgloss.JoinVertical(lipgloss.Left, stamp, bubble)

	if selected {
		out = m.theme.Selected.Render(out)
	}
	if reply {
		return m.theme.ThreadReply.Render(out)
	}
	return m.align(msg.IsUser(), out)
}

func (m Model) renderAttachment(a model.Attachment, width int) string {
	var title string
	var lines []string
	switch a := a.(type) {
	case model.LocationCard:
		title = "Apex Labs Office"
		lines = append(lines, m.theme.CardValue.Render(a.Address))
		if a.MapURL != "" {
			lines = append(lines, m.theme.LinkStyle.Render(util.TruncateWidth(a.MapURL, width-4)))
		}
	case model.CalculatorPrompt:
		title = "Price Calculator"
		lines = append(lines, m.theme.CardLabel.Render("Press "+m.keys.Calculator.Help().Key+" to open"))
	case model.SchedulerPrompt:
		title = "Book a Consultation"
		lines = append(lines, m.theme.CardLabel.Render("Press "+m.keys.Scheduler.Help().Key+" to open"))
	default:
		return ""
	}
	content := m.theme.CardTitle.Render(title) + "\n" + strings.Join(lines, "\n")
	return m.theme.Card.Render(content)
}

func (m Model) align(isUser bool, s string) string {
	pos := styles.Align(isUser, m.ctrl.Language().RightToLeft())
	return lipgloss.PlaceHorizontal(max(1, m.width), pos, s)
}

func replyLabel(n int) string {
	if n == 1 {
		return "1 reply"
	}
	return fmt.Sprintf("%d replies", n)
}
