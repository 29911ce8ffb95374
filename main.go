// apexchat - The Apex Labs chat widget and its Gemini proxy.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/jeranaias/apexchat/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdServe:
		err = cli.HandleServe(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdHistory:
		err = cli.HandleHistory(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersionWithJSON(args)
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		err = cli.HandleUnknown(args)
		if err != nil && !args.JSON {
			cli.DisplayError(err, false)
			cli.PrintUsage()
			os.Exit(cli.GetExitCode(err))
		}
	}

	if err != nil {
		cli.HandleErrorAndExit(err, args.JSON)
	}
}
