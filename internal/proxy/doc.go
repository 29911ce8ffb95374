// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package proxy implements the chat proxy between the widget and the
// generative-language service.
//
// Service is the endpoint logic: validate the request, build one localized
// prompt from the latest user message, call the Generator once, and run the
// reply through the text post-processor. Client reaches a Service served
// over HTTP at ChatPath. Both have the same Respond method, so the widget
// can use either.
//
// # Wire Format
//
//	POST /api/chat
//	{"messages":[{"role":"user","content":"Hi"}],"language":"en"}
//
//	200 {"response":"..."}
//	4xx/5xx {"error":"..."}
package proxy
