// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the domain types shared by the chat widget, the
// persistence backends and the export layer.
//
// # Key Types
//
//   - Message: Single message with role, text, timestamp, thread parent and topic tags
//   - Attachment: Closed variant set (LocationCard, CalculatorPrompt, SchedulerPrompt)
//   - Conversation: Ordered message list with derived reply counts, saved through a Persister
//   - Thread: A top-level message and its replies
//   - Record: Persisted {text, isUser, timestamp} form of a message
//   - Language: Supported widget languages (en, ar, fr)
//
// # Usage
//
// Create a conversation backed by any Persister:
//
//	conv := model.NewConversation(store, "Welcome to Apex Labs!", logger)
//	root := model.NewUserMessage("Tell me about your cloud services")
//	_ = conv.Append(root)
//	_ = conv.Append(model.NewAssistantMessage("Sure.").WithParent(root.ID))
//
// Threading is a single level deep; a reply to a reply fails with
// ErrNestedThread.
package model
