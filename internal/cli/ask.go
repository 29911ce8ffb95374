// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - The ask command: one question, one answer.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/apexchat/internal/storage"
	"github.com/jeranaias/apexchat/internal/widget"
)

// HandleAsk sends one message and prints the reply. The exchange runs over
// a throwaway conversation unless --save is given.
//
// Flags:
//
//	--save    Keep the exchange in the saved conversation
func HandleAsk(args Args) error {
	parser, err := ParseFlags(args.Raw, askFlags)
	if err != nil {
		return err
	}
	query := parser.Text(0)
	if query == "" && !IsTTY() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return WrapError(err, "read question")
		}
		query = strings.TrimSpace(string(data))
	}
	if query == "" {
		return ErrMissingArgument("question", `apexchat ask "What services do you offer?"`)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, args.JSON || !args.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var store storage.Backend = storage.NewMemoryBackend()
	if parser.Switch("save") {
		store, err = openStore(cfg)
		if err != nil {
			return err
		}
	}
	defer store.Close()

	ctrl := newController(cfg, store, logger)
	ctx := context.Background()

	intent := widget.DetectIntent(query)
	start := time.Now()
	p, err := ctrl.Send(query)
	if err != nil {
		return err
	}
	if p != nil {
		p.Run(ctx)
		if _, err := ctrl.Resolve(p); err != nil {
			return err
		}
		if err := p.Err(); err != nil {
			return WrapError(err, "ask")
		}
	}
	msgs := ctrl.Messages()
	reply := msgs[len(msgs)-1]

	if args.JSON {
		return NewJSONResponse("ask", AskData{
			Question: query,
			Reply:    toMessageData(reply),
			Intent:   intent.String(),
			Language: ctrl.Language().String(),
			Elapsed:  time.Since(start),
		}).Print()
	}

	if args.Quiet {
		fmt.Println(reply.Text)
		return nil
	}
	printMessage(os.Stdout, reply, GetTerminalWidth())
	switch intent {
	case widget.IntentPricing:
		fmt.Println(DimStyle.Render("Run `apexchat chat` to use the price calculator."))
	case widget.IntentScheduling:
		fmt.Println(DimStyle.Render("Run `apexchat chat` to book a consultation."))
	}
	return nil
}
