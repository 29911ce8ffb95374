// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classify

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jeranaias/apexchat/internal/model"
)

// ============================================================================
// TOPICS
// ============================================================================

// Topic is a coarse conversation category.
type Topic string

const (
	TopicTechnical Topic = "technical"
	TopicBusiness  Topic = "business"
	TopicSupport   Topic = "support"
	TopicGeneral   Topic = "general"
)

// String returns the topic label used as a message context tag.
func (t Topic) String() string {
	return string(t)
}

// MaxRelated is how many earlier messages are linked to a classification.
const MaxRelated = 3

type topicEntry struct {
	topic       Topic
	keywords    []string
	suggestions []string
}

// topics is the keyword table in tie-break order: when two topics score the
// same, the earlier entry wins.
var topics = []topicEntry{
	{
		topic: TopicTechnical,
		keywords: []string{
			"api", "cloud", "software", "integration", "infrastructure", "security",
			"artificial intelligence", "machine learning", "data", "code", "platform", "migration",
		},
		suggestions: []string{
			"Tell me about your cloud services",
			"How do you handle system integration?",
			"What technologies do you work with?",
		},
	},
	{
		topic: TopicBusiness,
		keywords: []string{
			"price", "cost", "budget", "roi", "strategy", "growth",
			"revenue", "investment", "market", "transformation",
		},
		suggestions: []string{
			"What does a typical engagement cost?",
			"Can you share a relevant case study?",
			"How do you measure ROI?",
		},
	},
	{
		topic: TopicSupport,
		keywords: []string{
			"help", "issue", "problem", "error", "support", "broken", "bug", "trouble", "fix",
		},
		suggestions: []string{
			"How can I contact your support team?",
			"What are your support hours?",
			"Can I speak to a specialist?",
		},
	},
	{
		topic: TopicGeneral,
		keywords: []string{
			"hello", "greetings", "about", "company", "team", "services", "information", "who",
		},
		suggestions: []string{
			"What services do you offer?",
			"Where is your office?",
			"Tell me about Apex Labs",
		},
	},
}

// ============================================================================
// CLASSIFICATION
// ============================================================================

// Result is the outcome of classifying one message.
type Result struct {
	Topic Topic
	// Hits counts every keyword occurrence of Topic in the input.
	Hits int
	// Confidence is Hits divided by the topic's keyword count. Repeated
	// keywords push it above 1; it is not clamped.
	Confidence float64
	// RelatedIDs are the most recent earlier messages, newest first, that
	// mention a keyword of Topic.
	RelatedIDs []string
	// Suggestions are canned follow-up questions for Topic.
	Suggestions []string
}

// Classify scores text against the topic table. prior holds the recent
// history in conversation order. With no keyword hits the topic is general.
func Classify(text string, prior []*model.Message) Result {
	folded := fold(text)

	best := -1
	bestHits := 0
	for i, entry := range topics {
		if h := countHits(folded, entry.keywords); h > bestHits {
			best, bestHits = i, h
		}
	}
	if best < 0 {
		best = len(topics) - 1
	}
	entry := topics[best]

	return Result{
		Topic:       entry.topic,
		Hits:        bestHits,
		Confidence:  float64(bestHits) / float64(len(entry.keywords)),
		RelatedIDs:  related(prior, entry.keywords),
		Suggestions: append([]string(nil), entry.suggestions...),
	}
}

// Keywords returns a copy of the keyword list for a topic.
func Keywords(t Topic) []string {
	for _, entry := range topics {
		if entry.topic == t {
			return append([]string(nil), entry.keywords...)
		}
	}
	return nil
}

func related(prior []*model.Message, keywords []string) []string {
	var ids []string
	for i := len(prior) - 1; i >= 0 && len(ids) < MaxRelated; i-- {
		m := prior[i]
		if m == nil {
			continue
		}
		if countHits(fold(m.Text), keywords) > 0 {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func countHits(folded string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		hits += strings.Count(folded, kw)
	}
	return hits
}

// fold applies Unicode case folding; a Caser is stateful, so one per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
