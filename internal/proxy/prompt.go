// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package proxy

import (
	"fmt"
	"strings"

	"github.com/jeranaias/apexchat/internal/locale"
	"github.com/jeranaias/apexchat/internal/model"
)

// formattingInstructions constrains the reply layout so the text
// post-processor can clean it and the link injector can find page mentions.
const formattingInstructions = `Formatting rules:
- Organize the answer into short sections with clear headings.
- Use "-" bullet points for lists.
- Do not repeat yourself; never say the same sentence twice.
- When pointing to a page of the website, use exactly the phrase "Visit our [Page] page", for example "Visit our Pricing page".
- Mention each page at most once, most relevant page first.
- Do not use bold, italics, tables or code blocks.`

// BuildPrompt assembles the single outbound prompt: the language briefing,
// the reply-language instruction, the latest user message verbatim, and the
// formatting rules.
func BuildPrompt(lang model.Language, userMessage string) string {
	var b strings.Builder
	b.WriteString(locale.SystemContext(lang))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Respond in %s.\n\n", lang.EnglishName())
	b.WriteString("User message:\n")
	b.WriteString(userMessage)
	b.WriteString("\n\n")
	b.WriteString(formattingInstructions)
	return b.String()
}
