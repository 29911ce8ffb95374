// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - The history command: show, export, import and clear the
// saved conversation.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/apexchat/internal/config"
	"github.com/jeranaias/apexchat/internal/export"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/storage"
)

// HandleHistory dispatches the history subcommands. The default is show.
func HandleHistory(args Args) error {
	parser, err := ParseFlags(args.Raw, historyFlags)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	backend, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	switch parser.Subcommand() {
	case "", "show", "list":
		return historyShow(args, cfg, backend)
	case "export":
		return historyExport(args, cfg, backend, parser)
	case "import":
		return historyImport(args, backend, parser.Positional(1))
	case "clear", "delete":
		return historyClear(args, backend, parser.Switch("confirm"))
	default:
		return NewValidationErrorWithExample("subcommand", parser.Subcommand(),
			"unknown history subcommand", "apexchat history show|export|import|clear")
	}
}

// loadHistory reads and rebuilds the saved conversation.
func loadHistory(backend storage.Backend) ([]*model.Message, error) {
	records, err := backend.Load()
	if err != nil {
		return nil, err
	}
	return model.FromRecords(records)
}

func historyShow(args Args, cfg *config.Config, backend storage.Backend) error {
	msgs, err := loadHistory(backend)
	if errors.Is(err, model.ErrNoHistory) {
		msgs, err = nil, nil
	}
	if err != nil {
		return WrapError(err, "load history")
	}

	if args.JSON {
		data := HistoryData{
			Backend:  cfg.Widget.HistoryBackend,
			Location: backend.Location(),
			Messages: make([]MessageData, 0, len(msgs)),
		}
		for _, m := range msgs {
			data.Messages = append(data.Messages, toMessageData(m))
		}
		return NewJSONResponse("history", data).Print()
	}

	if len(msgs) == 0 {
		fmt.Println(DimStyle.Render("No saved conversation in " + backend.Location()))
		return nil
	}
	if !args.Quiet {
		fmt.Println(TitleStyle.Render("Saved conversation"))
		fmt.Printf("%s%s\n", RenderLabel("Location"), ValueStyle.Render(backend.Location()))
		fmt.Printf("%s%s\n\n", RenderLabel("Messages"), ValueStyle.Render(fmt.Sprint(len(msgs))))
	}
	printTranscript(os.Stdout, msgs, GetTerminalWidth())
	return nil
}

func historyExport(args Args, cfg *config.Config, backend storage.Backend, parser *ArgParser) error {
	msgs, err := loadHistory(backend)
	if errors.Is(err, model.ErrNoHistory) {
		return NewNotFoundError("saved conversation", backend.Location())
	}
	if err != nil {
		return WrapError(err, "load history")
	}

	format := parser.FlagOrDefault("format", "markdown")
	path, err := exportConversation(msgs, format, parser.FlagOrDefault("output", "."), cfg.Language())
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("history", ExportData{Path: path, Format: format, Messages: len(msgs)}).Print()
	}
	fmt.Printf("%s %s\n", SuccessStyle.Render("Exported"), path)
	return nil
}

func historyImport(args Args, backend storage.Backend, path string) error {
	if path == "" {
		return ErrMissingArgument("file", "apexchat history import apex-labs-chat.json")
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewNotFoundError("file", path)
	}
	if err != nil {
		return WrapError(err, "read import")
	}
	msgs, err := export.Import(data)
	if err != nil {
		return NewValidationError("file", path, err.Error())
	}
	if err := backend.Save(model.ToRecords(msgs)); err != nil {
		return WrapError(err, "save history")
	}

	if args.JSON {
		return NewJSONResponse("history", ExportData{Path: path, Format: "json", Messages: len(msgs)}).Print()
	}
	fmt.Printf("%s %d messages from %s\n", SuccessStyle.Render("Imported"), len(msgs), path)
	return nil
}

func historyClear(args Args, backend storage.Backend, confirm bool) error {
	ok, err := RequireConfirmation("delete the saved conversation", ConfirmationOptions{
		ConfirmFlag: confirm,
		JSONMode:    args.JSON,
	})
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := backend.Clear(); err != nil {
		return WrapError(err, "clear history")
	}

	if args.JSON {
		return NewJSONResponse("history", map[string]string{"cleared": backend.Location()}).Print()
	}
	fmt.Printf("%s %s\n", SuccessStyle.Render("Cleared"), backend.Location())
	return nil
}
