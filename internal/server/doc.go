// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the HTTP surface of the chat proxy.
//
// # Key Types
//
//   - Server: Routes, middleware chain and lifecycle (Start, Serve, Shutdown)
//   - RateLimiter: Per-IP token buckets backed by golang.org/x/time/rate
//   - Metrics: Prometheus collectors on a per-server registry
//   - CORSConfig: Allowed origins for the embedded widget
//
// # Usage
//
//	svc := proxy.NewService(cloud.NewGeminiClient(key), logger)
//	srv := server.NewServer(":8787", svc).WithLogger(logger)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
//
// Middleware order is recovery, security headers, request id, metrics,
// logging, CORS; the chat route additionally passes the rate limiter.
package server
