// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for apexchat.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota
	CmdServe
	CmdAsk
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdChat:
		return "chat"
	case CmdServe:
		return "serve"
	case CmdAsk:
		return "ask"
	case CmdHistory:
		return "history"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet      bool
	Verbose    bool
	JSON       bool
	Model      string
	Language   string
	ConfigPath string

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Unknown holds the unrecognized command word, if any.
	Unknown string

	// Raw args (remaining after global flag parsing)
	Raw []string
}

const usageText = `apexchat - Apex Labs chat widget and proxy

Usage:
  apexchat                       Start the chat widget (default)
  apexchat chat [--plain]        Chat interactively
  apexchat ask "question" [--save]
                                 Ask a single question
  apexchat serve [--addr ADDR]   Run the chat proxy endpoint
  apexchat history [subcommand]  Manage the saved conversation
  apexchat config [subcommand]   Show or change configuration
  apexchat version               Show version information
  apexchat help                  Show this help

History Commands:
  apexchat history show                 Print the saved conversation
  apexchat history export               Export the conversation
    --format text|markdown|html|json    Export format (default: markdown)
    --output DIR                        Directory for the file (default: .)
  apexchat history import FILE          Replace the conversation with a JSON export
  apexchat history clear --confirm      Delete the saved conversation

Config Commands:
  apexchat config show                  Show the effective configuration
  apexchat config get KEY               Print one value (e.g. gemini.model)
  apexchat config set KEY VALUE         Change one value and save
  apexchat config path                  Print the config file location

Global Flags:
  -q, --quiet          Minimal output
  -v, --verbose        Debug logging
  --json               JSON output where supported
  --model NAME         Upstream model (overrides config)
  --lang CODE          Widget language: en, ar, fr
  --config PATH        Read configuration from PATH

Chat Keys (widget):
  enter send, tab suggestions, C-r reply in thread, C-t expand thread,
  M-v voice input, M-l language, M-c calculator, M-s scheduler,
  M-e export, C-l clear, F1 help, C-c quit

Environment:
  APEX_GEMINI_API_KEY (or GEMINI_API_KEY), APEX_GEMINI_MODEL,
  APEX_MAPS_API_KEY, APEX_ADDR, APEX_LANGUAGE, APEX_PROXY_URL,
  APEX_HISTORY_BACKEND, APEX_LOG_LEVEL. A .env file is read at startup.
`

// PrintUsage prints the help text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("apexchat %s\n", Version)
	fmt.Printf("  Commit:     %s\n", GitCommit)
	fmt.Printf("  Built:      %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments into a command and its Args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdChat, parsedArgs
	}

	cmd := remaining[0]
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch strings.ToLower(cmd) {
	case "chat", "c":
		return CmdChat, parsedArgs

	case "serve", "server":
		return CmdServe, parsedArgs

	case "ask", "a":
		return CmdAsk, parsedArgs

	case "history", "h":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdHistory, parsedArgs

	case "config", "cfg":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		parsedArgs.Unknown = cmd
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	valueFlags := map[string]*string{
		"--model":  &parsedArgs.Model,
		"--lang":   &parsedArgs.Language,
		"--config": &parsedArgs.ConfigPath,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
			continue
		case "-v", "--verbose":
			parsedArgs.Verbose = true
			continue
		case "--json":
			parsedArgs.JSON = true
			continue
		case "--version":
			remaining = append(remaining, "version")
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if target, ok := valueFlags[name]; ok {
			if hasValue {
				*target = value
			} else if i+1 < len(args) {
				i++
				*target = args[i]
			}
			continue
		}
		remaining = append(remaining, arg)
	}

	return remaining, parsedArgs
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleVersionWithJSON handles the "version" command with JSON output support.
func HandleVersionWithJSON(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
	}
	PrintVersion()
	return nil
}

// HandleUnknown reports an unknown command with a suggestion.
func HandleUnknown(args Args) error {
	err := &ValidationError{Field: "command", Value: args.Unknown, Reason: "unknown command"}
	if s := SuggestCommand(args.Unknown); s != "" {
		err.Example = "apexchat " + s
	}
	return err
}
