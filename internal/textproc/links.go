// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package textproc

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// ROUTE TABLE
// =============================================================================

// Route maps a page name as users and the model say it to a site path.
type Route struct {
	Name string
	Path string
}

// Routes is the ordered page table. Order decides which mention is linked
// first when several pages are named in one reply.
var Routes = []Route{
	{Name: "pricing", Path: "/pricing"},
	{Name: "services", Path: "/services"},
	{Name: "contact", Path: "/contact"},
	{Name: "about", Path: "/about"},
	{Name: "case studies", Path: "/case-studies"},
	{Name: "case-studies", Path: "/case-studies"},
	{Name: "blog", Path: "/blog"},
	{Name: "partners", Path: "/partners"},
	{Name: "press", Path: "/press"},
}

// LookupRoute returns the path for a page name, ignoring case and
// surrounding space.
func LookupRoute(name string) (string, bool) {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	for _, r := range Routes {
		if r.Name == name {
			return r.Path, true
		}
	}
	return "", false
}

// =============================================================================
// LINK ANNOTATIONS
// =============================================================================

var (
	placeholder = regexp.MustCompile(`(?i)\[insert\s+(.+?)\s+page\s+link\s+here\]`)
	annotation  = regexp.MustCompile(`<link href="([^"]*)">(.*?)</link>`)
	phrases     = compilePhrases()
)

func compilePhrases() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(Routes))
	for _, r := range Routes {
		name := strings.ReplaceAll(regexp.QuoteMeta(r.Name), " ", `\s+`)
		out[r.Name] = regexp.MustCompile(`(?i)\b(?:(?:our|the)\s+)?` + name + `\s+page\b`)
	}
	return out
}

// Annotate wraps display text in the link annotation for path.
func Annotate(path, display string) string {
	return fmt.Sprintf(`<link href="%s">%s</link>`, path, display)
}

// InjectLinks rewrites page mentions into link annotations. Placeholders of
// the form "[Insert Pricing page link here]" are resolved first; unknown
// page names are left as written. Then the first "our X page", "the X page"
// or "X page" mention of every page not yet linked is wrapped. Each path is
// linked at most once.
func InjectLinks(text string) string {
	linked := make(map[string]bool)
	for _, m := range annotation.FindAllStringSubmatch(text, -1) {
		linked[m[1]] = true
	}

	text = placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSpace(placeholder.FindStringSubmatch(match)[1])
		path, ok := LookupRoute(name)
		if !ok {
			return match
		}
		if linked[path] {
			return name
		}
		linked[path] = true
		return Annotate(path, name)
	})

	for _, r := range Routes {
		if linked[r.Path] {
			continue
		}
		loc := firstOutsideAnnotations(text, phrases[r.Name])
		if loc == nil {
			continue
		}
		text = text[:loc[0]] + Annotate(r.Path, text[loc[0]:loc[1]]) + text[loc[1]:]
		linked[r.Path] = true
	}
	return text
}

// firstOutsideAnnotations returns the first match of re that does not
// overlap an existing link annotation.
func firstOutsideAnnotations(text string, re *regexp.Regexp) []int {
	spans := annotation.FindAllStringIndex(text, -1)
	for _, loc := range re.FindAllStringIndex(text, -1) {
		inside := false
		for _, s := range spans {
			if loc[0] < s[1] && s[0] < loc[1] {
				inside = true
				break
			}
		}
		if !inside {
			return loc
		}
	}
	return nil
}

// Segment is a run of plain text or a link found in annotated text.
type Segment struct {
	Text string
	// Href is empty for plain text.
	Href string
}

// Segments splits annotated text into plain and link runs for rendering.
func Segments(text string) []Segment {
	var out []Segment
	last := 0
	for _, m := range annotation.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, Segment{Text: text[last:m[0]]})
		}
		out = append(out, Segment{Text: text[m[4]:m[5]], Href: text[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// StripLinks replaces every annotation with its display text.
func StripLinks(text string) string {
	return annotation.ReplaceAllString(text, "$2")
}

// PlainText renders every annotation as "display (path)" for terminals
// that cannot show links.
func PlainText(text string) string {
	return annotation.ReplaceAllString(text, "$2 ($1)")
}

// CountLinks returns how many annotations point at path.
func CountLinks(text, path string) int {
	n := 0
	for _, m := range annotation.FindAllStringSubmatch(text, -1) {
		if m[1] == path {
			n++
		}
	}
	return n
}
