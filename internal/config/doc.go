// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for apexchat.
//
// Supports TOML, JSON and YAML configuration formats, with sensible defaults,
// .env loading, environment variable overrides, validation and hot reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Proxy endpoint listen address, CORS, rate limits
//   - GeminiConfig: Upstream API key and model
//   - WidgetConfig: Language, history backend, proxy URL, voice command
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (APEX_*, plus GEMINI_API_KEY), including a .env file
//   - ~/.apexchat/config.toml
//   - ~/.apexchat/config.json
//   - ~/.apexchat/config.yaml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Reload on change:
//
//	go config.Watch(ctx, path, func(cfg *config.Config, err error) {
//	    if err == nil {
//	        client.SetModel(cfg.Gemini.Model)
//	    }
//	})
package config
