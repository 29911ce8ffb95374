// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the apexchat terminal widget.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

  - Indigo - Apex Labs brand, header and assistant accents
  - Cyan - User highlights and quick reply chips
  - Emerald - Cards and confirmations
  - Amber - Listening indicator
  - Rose - Errors

Status helpers pair every color with an ASCII indicator:

	styles.RenderSuccess("Saved")   // [OK] Saved
	styles.RenderError("Failed")    // [X] Failed

# Theme (theme.go)

Theme groups the widget styles: header, message bubbles, thread replies,
attachment cards, quick reply chips, the reply and voice banners, input
and the calculator and scheduler forms.

	theme := styles.NewTheme()
	bubble := theme.Bubble(msg.IsUser(), width).Render(msg.Text)
*/
package styles
