// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - "Did you mean" hints for mistyped commands and flags.
package cli

import (
	"strings"
)

// commandWords are the command names and aliases ParseArgs accepts.
var commandWords = []string{
	"chat", "c",
	"ask", "a",
	"serve", "server",
	"history", "h",
	"config", "cfg",
	"version",
	"help",
}

// SuggestCommand returns the command closest to input, or "" when input is
// already a command or nothing is close enough.
func SuggestCommand(input string) string {
	return closest(strings.ToLower(input), commandWords)
}

// SuggestFlag returns the accepted flag closest to name (given without
// dashes), or "".
func SuggestFlag(name string, accepted []string) string {
	return closest(strings.ToLower(name), accepted)
}

// closest picks the candidate with the smallest edit distance to input,
// first in list order on ties. One edit is allowed for inputs up to three
// bytes, two up to eight and three beyond. Single bytes never match.
func closest(input string, candidates []string) string {
	if len(input) < 2 {
		return ""
	}
	limit := 1
	switch {
	case len(input) > 8:
		limit = 3
	case len(input) > 3:
		limit = 2
	}

	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := editDistance(input, c)
		if d == 0 {
			return ""
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b over bytes.
func editDistance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub++
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
