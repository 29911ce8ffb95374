// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components of the chat widget.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	LanguageBadge  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Selected        lipgloss.Style
	Timestamp       lipgloss.Style
	ReplyCount      lipgloss.Style
	ThreadReply     lipgloss.Style

	// ==========================================================================
	// ATTACHMENT STYLES
	// ==========================================================================

	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardLabel lipgloss.Style
	CardValue lipgloss.Style

	// ==========================================================================
	// QUICK REPLY STYLES
	// ==========================================================================

	Chip         lipgloss.Style
	ChipSelected lipgloss.Style

	// ==========================================================================
	// BANNER STYLES
	// ==========================================================================

	ReplyBanner lipgloss.Style
	VoiceBanner lipgloss.Style
	VoiceError  lipgloss.Style
	Thinking    lipgloss.Style

	// ==========================================================================
	// INPUT AND FOOTER STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Placeholder    lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox        lipgloss.Style
	FormTitle      lipgloss.Style
	FormField      lipgloss.Style
	FormFieldFocus lipgloss.Style
	FormError      lipgloss.Style

	LinkStyle lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.LanguageBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true).
		Padding(0, 1)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.Selected = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(Cyan).
		BorderLeft(true).
		PaddingLeft(1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ReplyCount = lipgloss.NewStyle().
		Foreground(Cyan).
		Italic(true)

	t.ThreadReply = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		BorderLeft(true).
		PaddingLeft(1).
		MarginLeft(4)

	// Attachments
	t.Card = lipgloss.NewStyle().
		Background(CardBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(CardBorder).
		Padding(0, 1)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.CardLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CardValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Quick replies
	t.Chip = lipgloss.NewStyle().
		Foreground(ChipFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ChipBorder).
		Padding(0, 1)

	t.ChipSelected = t.Chip.
		Background(SelectionBg).
		Bold(true)

	// Banners
	t.ReplyBanner = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Cyan).
		BorderLeft(true).
		PaddingLeft(1)

	t.VoiceBanner = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.VoiceError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Thinking = lipgloss.NewStyle().
		Foreground(Indigo).
		Italic(true)

	// Input and footer
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 2)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.FormField = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.FormFieldFocus = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// Bubble returns the bubble style for a message, sized to width. Bubbles
// take at most three quarters of the width.
func (t *Theme) Bubble(isUser bool, width int) lipgloss.Style {
	style := t.AssistantBubble
	if isUser {
		style = t.UserBubble
	}
	if w := BubbleWidth(width); w > 0 {
		style = style.MaxWidth(w)
	}
	return style
}

// BubbleWidth returns the maximum bubble width for a view of width columns.
func BubbleWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := width * 3 / 4
	if w < 20 {
		w = width
	}
	return w
}

// Align returns the horizontal alignment for a message. Right-to-left
// languages mirror the layout.
func Align(isUser, rightToLeft bool) lipgloss.Position {
	if isUser != rightToLeft {
		return lipgloss.Right
	}
	return lipgloss.Left
}
