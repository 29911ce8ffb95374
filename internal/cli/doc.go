// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the command handlers for
// apexchat.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global flags plus command-specific values
//   - FlagSet, ArgParser: The flags each command accepts and their parsed values
//   - JSONResponse: Envelope for --json output
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdServe:
//	    err = cli.HandleServe(args)
//	case cli.CmdChat:
//	    err = cli.HandleChat(args)
//	// ... other commands
//	}
//	if err != nil {
//	    cli.HandleErrorAndExit(err, args.JSON)
//	}
//
// # Commands Overview
//
//   - chat: The chat widget (full screen on a terminal, line mode otherwise)
//   - ask: One question, one answer
//   - serve: The chat proxy endpoint in front of Gemini
//   - history: Show, export, import or clear the saved conversation
//   - config: Show and edit configuration
//
// Commands that print data accept --json.
package cli
