// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package locale holds the localized strings of the chat widget and the
// per-language company briefing sent to the model.
//
// Catalogs exist for English, Arabic and French; For falls back to English.
// Page names inside the briefings stay in English because the link injector
// matches English page names.
package locale
