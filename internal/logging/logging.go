// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/apexchat/internal/config"
)

// New builds a logger writing to stderr and, when cfg.File is set, to that
// file. Production config uses the JSON encoder; development uses the
// console encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	return build(cfg, true)
}

// NewQuiet builds a logger that never writes to the terminal. It logs to
// cfg.File, or nowhere when no file is configured. Full-screen views use it.
func NewQuiet(cfg config.LoggingConfig) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}
	return build(cfg, false)
}

func build(cfg config.LoggingConfig, stderr bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = nil
	zc.ErrorOutputPaths = []string{"stderr"}
	if stderr {
		zc.OutputPaths = append(zc.OutputPaths, "stderr")
	}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
