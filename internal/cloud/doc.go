// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the Gemini integration used by the chat proxy.
//
// GeminiClient wraps google.golang.org/genai with the small surface the proxy
// needs: one prompt in, one reply out.
//
// # Key Types
//
//   - GeminiClient: Concurrency-safe client with a configurable model
//
// # Usage
//
//	client := cloud.NewGeminiClient(apiKey).WithModel("gemini-2.0-flash")
//	text, err := client.Generate(ctx, prompt)
//	if errors.Is(err, cloud.ErrNotConfigured) {
//	    // no API key
//	}
//
// The API key never appears in logs; use KeyFingerprint to tell keys apart.
package cloud
