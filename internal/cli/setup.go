// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Wiring shared by the commands: config, logger, upstream
// client, history backend and widget controller.
package cli

import (
	"os"

	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/cloud"
	"github.com/jeranaias/apexchat/internal/config"
	"github.com/jeranaias/apexchat/internal/logging"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/proxy"
	"github.com/jeranaias/apexchat/internal/storage"
	"github.com/jeranaias/apexchat/internal/voice"
	"github.com/jeranaias/apexchat/internal/widget"
)

// loadConfig loads the config file (--config or the default location) and
// applies the global flags on top.
func loadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.Model != "" {
		cfg.Gemini.Model = args.Model
	}
	if args.Language != "" {
		lang, err := model.ParseLanguage(args.Language)
		if err != nil {
			return nil, NewValidationErrorWithExample("language", args.Language, err.Error(), "--lang fr")
		}
		cfg.Widget.Language = string(lang)
	}
	switch {
	case args.Verbose:
		cfg.Logging.Level = "debug"
	case args.Quiet:
		cfg.Logging.Level = "error"
	}
	return cfg, nil
}

// configFile returns the file a running command should watch, or "" when
// the defaults are in use.
func configFile(args Args) string {
	if args.ConfigPath != "" {
		return args.ConfigPath
	}
	for _, ext := range []string{"toml", "json", "yaml"} {
		path, err := config.ConfigPath(ext)
		if err != nil {
			return ""
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// newGemini builds the upstream client from cfg.
func newGemini(cfg *config.Config, logger *zap.Logger) *cloud.GeminiClient {
	client := cloud.NewGeminiClient(cfg.Gemini.APIKey).
		WithModel(cfg.Gemini.Model).
		WithLogger(logger)
	if cfg.Gemini.BaseURL != "" {
		client = client.WithBaseURL(cfg.Gemini.BaseURL)
	}
	return client
}

// newResponder returns a client for the remote proxy when one is configured,
// otherwise an in-process proxy service calling Gemini directly.
func newResponder(cfg *config.Config, logger *zap.Logger) widget.Responder {
	if cfg.Widget.ProxyURL != "" {
		logger.Debug("RESPONDER_REMOTE", zap.String("url", cfg.Widget.ProxyURL))
		return proxy.NewClient(cfg.Widget.ProxyURL)
	}
	gem := newGemini(cfg, logger)
	logger.Debug("RESPONDER_LOCAL",
		zap.String("model", gem.Model()),
		zap.Bool("configured", gem.IsConfigured()))
	return proxy.NewService(gem, logger)
}

// openStore opens the configured history backend.
func openStore(cfg *config.Config) (storage.Backend, error) {
	backend, err := storage.Open(storage.Kind(cfg.Widget.HistoryBackend), cfg.Widget.HistoryPath)
	if err != nil {
		return nil, WrapError(err, "open history")
	}
	return backend, nil
}

// newController builds a widget controller over store.
func newController(cfg *config.Config, store model.Persister, logger *zap.Logger) *widget.Controller {
	var rec voice.Recognizer = voice.Unavailable{}
	if cfg.Widget.VoiceCommand != "" {
		rec = voice.NewCommandRecognizer(cfg.Widget.VoiceCommand)
	}
	return widget.New(widget.Options{
		Store:      store,
		Responder:  newResponder(cfg, logger),
		Recognizer: rec,
		Language:   cfg.Language(),
		Office: widget.Office{
			Address: cfg.Maps.OfficeAddress,
			MapsKey: cfg.Maps.APIKey,
		},
		Logger: logger,
	})
}

// newLogger builds the logger for a command. Full-screen and JSON commands
// must not write logs to the terminal.
func newLogger(cfg *config.Config, quiet bool) (*zap.Logger, error) {
	if quiet {
		return logging.NewQuiet(cfg.Logging)
	}
	return logging.New(cfg.Logging)
}
