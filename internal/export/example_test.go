// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export_test

import (
	"fmt"
	"time"

	"github.com/jeranaias/apexchat/internal/export"
	"github.com/jeranaias/apexchat/internal/model"
)

// ExampleTextExporter demonstrates the plain text transcript format.
func ExampleTextExporter() {
	start := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	question := &model.Message{ID: "q", Role: model.RoleUser, Text: "Where is your office?", Timestamp: start.Add(time.Minute)}
	msgs := []*model.Message{
		{ID: "w", Role: model.RoleAssistant, Text: "Welcome to Apex Labs!", Timestamp: start},
		question,
		{ID: "a", Role: model.RoleAssistant, ParentID: "q", Timestamp: start.Add(2 * time.Minute),
			Text: `Visit <link href="/contact">our contact page</link>.`},
	}

	opts := export.DefaultOptions()
	opts.Location = time.UTC

	data, err := export.NewTextExporter(opts).Export(msgs)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	fmt.Print(string(data))
	// Output:
	// [2025-03-01 09:30:00] Apex Assistant: Welcome to Apex Labs!
	// [2025-03-01 09:31:00] You: Where is your office?
	//     [2025-03-01 09:32:00] Apex Assistant: Visit our contact page.
}
