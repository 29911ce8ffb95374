// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"github.com/jeranaias/apexchat/internal/locale"
	"github.com/jeranaias/apexchat/internal/model"
)

var (
	greetingWords = []string{"hello", "welcome", "greetings", "bonjour", "bienvenue", "مرحب", "أهلا", "أهلاً"}
	priceWords    = []string{"price", "pricing", "cost", "quote", "estimate", "prix", "coût", "devis", "tarif", "سعر", "تكلفة"}
	supportWords  = []string{"contact", "support", "help", "aide", "assistance", "دعم", "تواصل"}
)

// quickReplies picks the menu offered under the last message. Only an
// assistant message gets one.
func quickReplies(last *model.Message, cat *locale.Catalog) []string {
	if last == nil || last.Role != model.RoleAssistant {
		return nil
	}
	text := fold(last.Text)
	switch {
	case containsAny(text, greetingWords):
		return append([]string(nil), cat.GeneralReplies...)
	case containsAny(text, priceWords):
		return append([]string(nil), cat.PricingReplies...)
	case containsAny(text, supportWords):
		return append([]string(nil), cat.SupportReplies...)
	default:
		return nil
	}
}
