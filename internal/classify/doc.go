// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package classify assigns a topic to a chat message by keyword matching.
//
// Every topic has a keyword list. Classify counts case-insensitive substring
// hits of each list in the message; the topic with the most hits wins, ties
// go to the earlier topic (technical, business, support, general), and a
// message with no hits is general. Matching is plain substring search, so
// "fix" also matches inside "prefix"; the topic label is a hint for the
// widget, not a contract.
//
// # Usage
//
//	res := classify.Classify(input, conv.Recent(5))
//	reply.WithContext(res.Topic.String())
package classify
