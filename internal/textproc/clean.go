// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package textproc

import (
	"regexp"
	"strings"
)

// Result holds both stages of post-processing.
type Result struct {
	// Clean is the de-markdowned, deduplicated text.
	Clean string
	// Linked is Clean with page mentions rewritten into link annotations.
	Linked string
}

// Process runs Clean followed by InjectLinks.
func Process(raw string) Result {
	clean := Clean(raw)
	return Result{Clean: clean, Linked: InjectLinks(clean)}
}

// =============================================================================
// CLEANUP
// =============================================================================

var (
	// headingLine matches a shouted heading such as "OUR SERVICES:". Short
	// all-caps sentences match too; the extra section break is harmless.
	headingLine = regexp.MustCompile(`^[A-Z][^a-z:]{2,}:?$`)

	mdHeading   = regexp.MustCompile(`^#+\s*`)
	mdLink      = regexp.MustCompile(`\[([^\]]+)\]\(([^)]*)\)`)
	mdUnderline = regexp.MustCompile(`(^|[^\p{L}\p{N}_])_([^_\s](?:[^_]*[^_\s])?)_([^\p{L}\p{N}_]|$)`)
	ruleLine    = regexp.MustCompile(`^[-*_=\s]{3,}$`)
	manyBreaks  = regexp.MustCompile(`\n{3,}`)
)

// Clean strips markdown from a model reply and normalizes its layout:
//
//  1. blank lines and repeated lines (compared trimmed, case-sensitive) are
//     dropped, keeping the first occurrence
//  2. headings start new sections
//  3. bold, italic, code and heading markers are removed, [text](url)
//     becomes text, and "-", "•" and "* " items become "• item"
//  4. sections are joined by a single blank line
//
// The result never contains two identical non-blank lines.
func Clean(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := dedupe(strings.Split(raw, "\n"))

	var sections []string
	for _, sec := range splitSections(lines) {
		if s := cleanSection(sec); s != "" {
			sections = append(sections, s)
		}
	}

	text := strings.Join(sections, "\n\n")
	// Marker removal can make two distinct input lines identical.
	text = strings.Join(dedupeKeepBlank(strings.Split(text, "\n")), "\n")
	text = manyBreaks.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// dedupe trims every line and drops blanks and lines seen before.
func dedupe(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}

func dedupeKeepBlank(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		key := strings.TrimSpace(line)
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, line)
	}
	return out
}

// isHeading reports whether a trimmed line opens a new section.
func isHeading(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	return headingLine.MatchString(strings.TrimSpace(stripMarkdown(line)))
}

func splitSections(lines []string) [][]string {
	var sections [][]string
	var current []string
	for _, line := range lines {
		if isHeading(line) && len(current) > 0 {
			sections = append(sections, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

func cleanSection(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if ruleLine.MatchString(line) {
			continue
		}
		bullet := false
		switch {
		case strings.HasPrefix(line, "•"):
			line, bullet = strings.TrimPrefix(line, "•"), true
		case strings.HasPrefix(line, "-"):
			line, bullet = strings.TrimPrefix(line, "-"), true
		case strings.HasPrefix(line, "* "):
			line, bullet = strings.TrimPrefix(line, "*"), true
		}
		line = strings.TrimSpace(stripMarkdown(strings.TrimSpace(line)))
		if line == "" {
			continue
		}
		if bullet {
			line = "• " + line
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// stripMarkdown removes inline markdown from a single line.
func stripMarkdown(line string) string {
	line = mdHeading.ReplaceAllString(line, "")
	line = mdLink.ReplaceAllString(line, "$1")
	line = strings.ReplaceAll(line, "`", "")
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "__", "")
	line = strings.ReplaceAll(line, "*", "")
	// Adjacent _a_ _b_ pairs share a boundary character, so repeat.
	for i := 0; i < 4; i++ {
		next := mdUnderline.ReplaceAllString(line, "$1$2$3")
		if next == line {
			break
		}
		line = next
	}
	return line
}
