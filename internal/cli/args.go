// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Per-command flag parsing.

package cli

import (
	"fmt"
	"strings"
)

// =============================================================================
// FLAG SETS
// =============================================================================

// FlagSet names the flags one command accepts, without dashes. Switches
// never consume the following word, so `ask --save what is a quote`
// keeps the whole question.
type FlagSet struct {
	Command  string
	Switches []string
	Values   []string
}

var (
	chatFlags = FlagSet{
		Command:  "chat",
		Switches: []string{"plain"},
		Values:   []string{"format", "output"},
	}
	askFlags = FlagSet{
		Command:  "ask",
		Switches: []string{"save"},
	}
	serveFlags = FlagSet{
		Command: "serve",
		Values:  []string{"addr"},
	}
	historyFlags = FlagSet{
		Command:  "history",
		Switches: []string{"confirm"},
		Values:   []string{"format", "output"},
	}
)

func (fs FlagSet) isSwitch(name string) bool { return containsString(fs.Switches, name) }
func (fs FlagSet) isValue(name string) bool  { return containsString(fs.Values, name) }

func (fs FlagSet) names() []string {
	out := make([]string, 0, len(fs.Switches)+len(fs.Values))
	out = append(out, fs.Switches...)
	return append(out, fs.Values...)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser is the result of parsing one command's words against its
// FlagSet: switch states, flag values and the positional words in order.
type ArgParser struct {
	switches   map[string]bool
	values     map[string]string
	positional []string
}

// ParseFlags parses raw against fs. Flags may come before, between or
// after positional words:
//
//	--plain              switch
//	--save=false         switch with an explicit boolean
//	--format html        value flag
//	--format=html        value flag
//	--                   everything after is positional
//
// An unknown flag is a ValidationError naming the closest accepted flag.
// A value flag at the end of raw is a missing argument.
func ParseFlags(raw []string, fs FlagSet) (*ArgParser, error) {
	p := &ArgParser{
		switches: make(map[string]bool),
		values:   make(map[string]string),
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "--") {
			p.positional = append(p.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		switch {
		case fs.isSwitch(name):
			if !hasValue {
				p.switches[name] = true
				continue
			}
			on, err := ParseBoolString(value)
			if err != nil {
				return nil, NewValidationErrorWithExample(name, value, "expected a boolean", "--"+name+"=true")
			}
			p.switches[name] = on

		case fs.isValue(name):
			if !hasValue {
				if i+1 >= len(raw) {
					return nil, ErrMissingArgument(name, fmt.Sprintf("apexchat %s --%s VALUE", fs.Command, name))
				}
				i++
				value = raw[i]
			}
			p.values[name] = value

		default:
			return nil, ErrUnknownFlag(arg, SuggestFlag(name, fs.names()))
		}
	}
	return p, nil
}

// Subcommand returns the first positional word ("export" in
// `history export --format json`), or "".
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns the value of a value flag, or "" when it was not given.
func (p *ArgParser) Flag(name string) string {
	return p.values[name]
}

// FlagOrDefault returns the value of a value flag, or def.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v, ok := p.values[name]; ok && v != "" {
		return v
	}
	return def
}

// Switch reports whether a switch was turned on.
func (p *ArgParser) Switch(name string) bool {
	return p.switches[name]
}

// Positional returns the index-th positional word, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// Text joins the positional words from index on with single spaces, as
// used for the question of `ask`.
func (p *ArgParser) Text(from int) string {
	if from < 0 || from >= len(p.positional) {
		return ""
	}
	return strings.Join(p.positional[from:], " ")
}

// =============================================================================
// VALUE HELPERS
// =============================================================================

// ParseBoolString parses yes/no style answers and flag values.
// Accepts true/false, yes/no, y/n, 1/0 and on/off in any case.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", s)
	}
}
