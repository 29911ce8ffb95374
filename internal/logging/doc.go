// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger shared by the server, the widget
// controller and the CLI from the [logging] config section.
//
// Event names are upper snake case (REQUEST_COMPLETE, HISTORY_CORRUPT).
// API keys are never logged.
package logging
