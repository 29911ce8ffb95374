// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package textproc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// CLEAN TESTS
// =============================================================================

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips markers and dedupes",
			in:   "**Hello**\n\nHello\n- item one\n* item two\n• item three\n`code`",
			want: "Hello\n• item one\n• item two\n• item three\ncode",
		},
		{
			name: "splits sections at headings",
			in:   "Intro text\nOUR SERVICES:\n- Cloud\nCONTACT US\nEmail us",
			want: "Intro text\n\nOUR SERVICES:\n• Cloud\n\nCONTACT US\nEmail us",
		},
		{
			name: "markdown headings",
			in:   "## Cloud Migration\nWe move you to the cloud.\n### Next Steps\nCall us.",
			want: "Cloud Migration\nWe move you to the cloud.\n\nNext Steps\nCall us.",
		},
		{
			name: "collapses markdown links",
			in:   "Read [our blog](https://apexlabs.example/blog) today",
			want: "Read our blog today",
		},
		{
			name: "underscore emphasis only",
			in:   "This is _important_ and snake_case stays",
			want: "This is important and snake_case stays",
		},
		{
			name: "drops rules and blank bullets",
			in:   "Top\n---\n-   \nBottom",
			want: "Top\nBottom",
		},
		{
			name: "keeps placeholders for link injection",
			in:   "See [Insert Pricing page link here]",
			want: "See [Insert Pricing page link here]",
		},
		{
			name: "empty",
			in:   "\n\n   \n",
			want: "",
		},
		{
			name: "windows newlines",
			in:   "one\r\ntwo\r\none",
			want: "one\ntwo",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Clean(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Clean() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClean_Properties(t *testing.T) {
	inputs := []string{
		"**Bold** and *italic* and __under__ and `tick`\n**Bold** and *italic* and __under__ and `tick`",
		"# H1\n## H2\n####### deep\nText",
		"- a\n- a\n-a\n• a\n* a",
		"PRICING:\nSTARTUP PLANS\n**PRICING:**\nCall us",
		"Line\n\n\n\nLine\n\n\n\nOther\n\n\n",
		"***\n___\n```\ncode block\n```",
		"- ## Cloud migration\n- # Data\n• ### Security\n*   ## Spaced",
	}
	for _, in := range inputs {
		out := Clean(in)
		seen := make(map[string]bool)
		for _, line := range strings.Split(out, "\n") {
			key := strings.TrimSpace(line)
			if key == "" {
				continue
			}
			if seen[key] {
				t.Errorf("Clean(%q) has duplicate line %q", in, key)
			}
			seen[key] = true
			if strings.HasPrefix(strings.TrimPrefix(key, "• "), "#") {
				t.Errorf("Clean(%q) kept heading marker in %q", in, key)
			}
		}
		for _, marker := range []string{"**", "__", "*", "`"} {
			if strings.Contains(out, marker) {
				t.Errorf("Clean(%q) = %q still contains %q", in, out, marker)
			}
		}
		if strings.Contains(out, "\n\n\n") {
			t.Errorf("Clean(%q) has more than one blank line in a row", in)
		}
	}
}

func TestClean_BulletedHeadings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"- ## Cloud migration\n- # Data", "• Cloud migration\n• Data"},
		{"• ### Security", "• Security"},
		{"-   #### Spaced out", "• Spaced out"},
	}
	for _, tt := range tests {
		if got := Process(tt.in).Clean; got != tt.want {
			t.Errorf("Process(%q).Clean = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// LINK TESTS
// =============================================================================

func TestInjectLinks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "our phrase",
			in:   "Visit our pricing page for details.",
			want: `Visit <link href="/pricing">our pricing page</link> for details.`,
		},
		{
			name: "bare phrase keeps case",
			in:   "The Services page lists everything.",
			want: `<link href="/services">The Services page</link> lists everything.`,
		},
		{
			name: "placeholder",
			in:   "Check [Insert Pricing page link here] now",
			want: `Check <link href="/pricing">Pricing</link> now`,
		},
		{
			name: "unknown placeholder is kept",
			in:   "Try [Insert Careers page link here]",
			want: "Try [Insert Careers page link here]",
		},
		{
			name: "placeholder wins over later phrase",
			in:   "[Insert Pricing page link here] and our pricing page",
			want: `<link href="/pricing">Pricing</link> and our pricing page`,
		},
		{
			name: "second placeholder for the same page collapses to its name",
			in:   "[Insert Blog page link here] or [insert blog page link here]",
			want: `<link href="/blog">Blog</link> or blog`,
		},
		{
			name: "several pages in one reply",
			in:   "Read the blog page, then our contact page.",
			want: `Read <link href="/blog">the blog page</link>, then <link href="/contact">our contact page</link>.`,
		},
		{
			name: "no mention",
			in:   "Nothing to link here.",
			want: "Nothing to link here.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := InjectLinks(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("InjectLinks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInjectLinks_AtMostOncePerRoute(t *testing.T) {
	in := "See our pricing page. Again, the pricing page. Our Case Studies page and the case-studies page."
	out := InjectLinks(in)

	if n := CountLinks(out, "/pricing"); n != 1 {
		t.Errorf("pricing linked %d times, want 1: %s", n, out)
	}
	if n := CountLinks(out, "/case-studies"); n != 1 {
		t.Errorf("case studies linked %d times, want 1: %s", n, out)
	}
	if !strings.Contains(out, `<link href="/pricing">our pricing page</link>`) {
		t.Errorf("first mention should win: %s", out)
	}
	if StripLinks(out) != in {
		t.Errorf("StripLinks() should restore the text, got %q", StripLinks(out))
	}
}

func TestLookupRoute(t *testing.T) {
	if p, ok := LookupRoute("  Case   Studies "); !ok || p != "/case-studies" {
		t.Errorf("LookupRoute(case studies) = %q, %v", p, ok)
	}
	if _, ok := LookupRoute("careers"); ok {
		t.Error("LookupRoute(careers) should be unknown")
	}
}

func TestSegments(t *testing.T) {
	got := Segments(`Go to <link href="/about">our about page</link> now`)
	want := []Segment{
		{Text: "Go to "},
		{Text: "our about page", Href: "/about"},
		{Text: " now"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segments() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no links", "no links"},
		{`See <link href="/pricing">our pricing page</link>.`, "See our pricing page (/pricing)."},
		{Annotate("/blog", "blog page") + " and " + Annotate("/press", "press page"), "blog page (/blog) and press page (/press)"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProcess(t *testing.T) {
	res := Process("**Pricing**\nVisit our pricing page\nVisit our pricing page")
	if res.Clean != "Pricing\nVisit our pricing page" {
		t.Errorf("Clean = %q", res.Clean)
	}
	want := "Pricing\nVisit " + Annotate("/pricing", "our pricing page")
	if res.Linked != want {
		t.Errorf("Linked = %q, want %q", res.Linked, want)
	}
}
