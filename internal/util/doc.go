// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across apexchat packages.
//
// # Key Functions
//
//   - AtomicWriteFile: Crash-safe file writing with fsync and rename
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, StringWidth, WrapWidth: Terminal column aware helpers
//
// # Usage
//
//	if err := util.AtomicWriteFile(path, data, 0o600); err != nil {
//	    return err
//	}
//	lines := util.WrapWidth(message, 72)
package util
