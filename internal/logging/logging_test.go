// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "apexchat.log")
	logger, err := NewQuiet(config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)

	logger.Debug("HIDDEN")
	logger.Info("REQUEST_COMPLETE", zap.Int("status", 200))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "REQUEST_COMPLETE", entry["msg"])
	require.Equal(t, float64(200), entry["status"])
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"WARN", false},
		{"error", false},
		{"verbose", true},
	}
	for _, tc := range tests {
		_, err := New(config.LoggingConfig{Level: tc.level})
		if (err != nil) != tc.wantErr {
			t.Errorf("New(level=%q) error = %v, wantErr %v", tc.level, err, tc.wantErr)
		}
	}
}

func TestNewQuiet_NoFileIsNop(t *testing.T) {
	logger, err := NewQuiet(config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNew_Development(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	logger, err := NewQuiet(config.LoggingConfig{Level: "debug", Development: true, File: path})
	require.NoError(t, err)
	logger.Debug("VOICE_START")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "VOICE_START")
	require.False(t, strings.HasPrefix(strings.TrimSpace(string(data)), "{"), "development output is console encoded")
}
