// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"strings"

	"golang.org/x/text/cases"
)

// Intent is the local routing decision for a sent message.
type Intent int

const (
	// IntentChat goes to the proxy.
	IntentChat Intent = iota
	// IntentScheduling opens the consultation form.
	IntentScheduling
	// IntentPricing opens the price calculator.
	IntentPricing
	// IntentLocation goes to the proxy and adds the office card.
	IntentLocation
)

func (i Intent) String() string {
	switch i {
	case IntentScheduling:
		return "scheduling"
	case IntentPricing:
		return "pricing"
	case IntentLocation:
		return "location"
	default:
		return "chat"
	}
}

// Intent keywords, matched as substrings of the case-folded message.
// Checked in the order scheduling, pricing, location.
var (
	schedulingKeywords = []string{
		"schedule", "book", "appointment", "call", "meeting", "consultation",
		"rendez-vous", "réserver", "موعد", "حجز", "استشارة",
	}
	pricingKeywords = []string{
		"price", "pricing", "cost", "quote", "estimate", "calculator", "charge", "how much",
		"prix", "tarif", "devis", "coût", "estimation", "سعر", "تكلفة", "أسعار",
	}
	locationKeywords = []string{
		"location", "address", "office",
		"adresse", "bureau", "عنوان", "مكتب",
	}
)

// DetectIntent classifies a user message for local routing.
func DetectIntent(text string) Intent {
	folded := fold(text)
	switch {
	case containsAny(folded, schedulingKeywords):
		return IntentScheduling
	case containsAny(folded, pricingKeywords):
		return IntentPricing
	case containsAny(folded, locationKeywords):
		return IntentLocation
	default:
		return IntentChat
	}
}

func containsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return cases.Fold().String(s)
}
