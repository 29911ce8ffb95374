// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - The serve command: run the chat proxy endpoint.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/config"
	"github.com/jeranaias/apexchat/internal/proxy"
	"github.com/jeranaias/apexchat/internal/server"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// HandleServe runs the proxy until SIGINT or SIGTERM.
//
// Flags:
//
//	--addr ADDR   Listen address (overrides server.addr)
func HandleServe(args Args) error {
	parser, err := ParseFlags(args.Raw, serveFlags)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if addr := parser.Flag("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gem := newGemini(cfg, logger)
	if !gem.IsConfigured() {
		logger.Warn("UPSTREAM_NOT_CONFIGURED",
			zap.String("hint", "set APEX_GEMINI_API_KEY or gemini.api_key"))
	} else {
		logger.Info("UPSTREAM",
			zap.String("model", gem.Model()),
			zap.String("key", gem.KeyFingerprint()))
	}

	cors := server.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.Server.AllowedOrigins
	}

	srv := server.NewServer(cfg.Server.Addr, proxy.NewService(gem, logger)).
		WithLogger(logger).
		WithCORS(cors).
		WithMaxBodyBytes(cfg.Server.MaxBodyBytes).
		WithUpstreamConfigured(gem.IsConfigured())
	if cfg.Server.RateLimitPerMinute > 0 {
		srv.WithRateLimiter(server.NewRateLimiter(cfg.Server.RateLimitPerMinute, cfg.Server.RateBurst))
	} else {
		srv.WithoutRateLimit()
	}

	if path := configFile(args); path != "" {
		go watchModel(ctx, path, gem.SetModel, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	if !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "%s listening on http://%s%s\n",
			SuccessStyle.Render("apexchat proxy"), srv.Addr(), proxy.ChatPath)
	}

	select {
	case err := <-errCh:
		if err != nil {
			return WrapError(err, "serve")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapError(err, "shutdown")
	}
	return <-errCh
}

// watchModel applies model changes from the config file while serving.
// Other settings need a restart.
func watchModel(ctx context.Context, path string, setModel func(string), logger *zap.Logger) {
	err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
		if err != nil {
			logger.Warn("CONFIG_RELOAD_FAILED", zap.Error(err))
			return
		}
		setModel(cfg.Gemini.Model)
		logger.Info("CONFIG_RELOADED", zap.String("model", cfg.Gemini.Model))
	})
	if err != nil {
		logger.Warn("CONFIG_WATCH_FAILED", zap.Error(err))
	}
}
