// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textproc cleans model replies before they reach the chat widget.
//
// Replies arrive as loosely formatted markdown. Clean reduces them to plain
// sectioned text with "•" bullets, and InjectLinks turns mentions of site
// pages into annotations of the form
//
//	<link href="/pricing">our pricing page</link>
//
// which the widget renders as navigable links. Process runs both.
package textproc
