// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - The config command: show, get, set and path.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/apexchat/internal/config"
)

// secretKeys are never printed by get or show.
var secretKeys = map[string]bool{
	"gemini.api_key": true,
	"maps.api_key":   true,
}

// HandleConfig dispatches the config subcommands. The default is show.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "get":
		return configGet(args)
	case "set":
		return configSet(args)
	case "path":
		return configPathCmd(args)
	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Println(k)
		}
		return nil
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand,
			"unknown config subcommand", "apexchat config show|get|set|path|keys")
	}
}

// editPath is the file get, set and path operate on.
func editPath(args Args) (string, error) {
	if path := configFile(args); path != "" {
		return path, nil
	}
	return config.ConfigPath("toml")
}

func configShow(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if args.JSON {
		// String redacts the keys.
		return NewJSONResponse("config", json.RawMessage(cfg.String())).Print()
	}

	fmt.Println(TitleStyle.Render("apexchat configuration"))
	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%s%s\n", RenderLabel(key, 32), ValueStyle.Render(displayValue(key, v)))
	}
	fmt.Println()
	fmt.Printf("%s upstream %s\n", RenderStatus(keyStatus(cfg.Gemini.APIKey)), DimStyle.Render(cfg.Gemini.Model))
	fmt.Printf("%s maps embed\n", RenderStatus(keyStatus(cfg.Maps.APIKey)))
	return nil
}

func configGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "apexchat config get gemini.model")
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	v, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewNotFoundError("config key", args.ConfigKey)
	}
	shown := displayValue(args.ConfigKey, v)

	if args.JSON {
		return NewJSONResponse("config", ConfigData{Key: args.ConfigKey, Value: shown}).Print()
	}
	fmt.Println(shown)
	return nil
}

// configSet edits the file itself so values that came from the environment
// are not written back.
func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "apexchat config set widget.language fr")
	}
	path, err := editPath(args)
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveToPath(cfg, path); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config", ConfigData{Key: args.ConfigKey, Value: displayValue(args.ConfigKey, args.ConfigVal)}).Print()
	}
	fmt.Printf("%s %s = %s (%s)\n", SuccessStyle.Render("Set"), args.ConfigKey,
		displayValue(args.ConfigKey, args.ConfigVal), DimStyle.Render(path))
	return nil
}

func configPathCmd(args Args) error {
	path, err := editPath(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", ConfigData{Key: "path", Value: path}).Print()
	}
	fmt.Println(path)
	return nil
}

// displayValue formats a config value, masking secrets.
func displayValue(key string, v interface{}) string {
	if secretKeys[strings.ToLower(key)] {
		if s, _ := v.(string); s != "" {
			return "[REDACTED]"
		}
		return "(not set)"
	}
	switch v := v.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "(not set)"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

func keyStatus(key string) string {
	if key == "" {
		return "missing"
	}
	return "configured"
}
