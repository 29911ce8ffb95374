// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the HTTP surface of the chat proxy.
//
// Endpoints:
//   - POST /api/chat - Chat proxy (widget history in, cleaned reply out)
//   - GET  /health   - Health check
//   - GET  /metrics  - Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/proxy"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8787"

	// DefaultMaxBodyBytes is the default request body limit (256KB).
	DefaultMaxBodyBytes = 256 * 1024

	// Version is the server version.
	Version = "1.0.0"
)

// Responder answers one chat request. *proxy.Service implements it.
type Responder interface {
	Respond(ctx context.Context, req proxy.Request) (string, error)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the HTTP server in front of the chat proxy.
type Server struct {
	addr    string
	router  *http.ServeMux
	server  *http.Server
	chat    Responder
	metrics *Metrics
	logger  *zap.Logger
	cors    *CORSConfig
	limiter *RateLimiter
	maxBody int64

	upstreamConfigured bool
	startTime          time.Time

	mu sync.RWMutex
}

// NewServer creates a Server listening on addr (DefaultAddr when empty) and
// answering chat calls with chat.
func NewServer(addr string, chat Responder) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:               addr,
		router:             http.NewServeMux(),
		chat:               chat,
		metrics:            NewMetrics(),
		logger:             zap.NewNop(),
		cors:               DefaultCORSConfig(),
		limiter:            DefaultRateLimiter(),
		maxBody:            DefaultMaxBodyBytes,
		upstreamConfigured: chat != nil,
		startTime:          time.Now(),
	}
	s.setupRoutes()
	return s
}

// WithLogger sets the logger.
func (s *Server) WithLogger(logger *zap.Logger) *Server {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithCORS replaces the CORS configuration.
func (s *Server) WithCORS(cfg *CORSConfig) *Server {
	if cfg != nil {
		s.cors = cfg
	}
	return s
}

// WithRateLimiter replaces the per-IP rate limiter.
func (s *Server) WithRateLimiter(rl *RateLimiter) *Server {
	if rl != nil {
		s.limiter = rl
	}
	return s
}

// WithoutRateLimit turns off per-IP rate limiting.
func (s *Server) WithoutRateLimit() *Server {
	s.limiter = nil
	return s
}

// WithMaxBodyBytes sets the request body limit.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBody = n
	}
	return s
}

// WithUpstreamConfigured sets what /health reports about the upstream
// credential.
func (s *Server) WithUpstreamConfigured(ok bool) *Server {
	s.upstreamConfigured = ok
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// setupRoutes registers all routes. Only the chat route is rate limited.
func (s *Server) setupRoutes() {
	chat := http.HandlerFunc(s.handleChat)
	s.router.Handle("POST "+proxy.ChatPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RateLimitMiddleware(s.limiter, s.logger, s.metrics)(chat).ServeHTTP(w, r)
	}))
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
}

// Handler returns the routes wrapped in the full middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		RequestIDMiddleware(),
		MetricsMiddleware(s.metrics, proxy.ChatPath, "/health", "/metrics"),
		LoggingMiddleware(s.logger),
		CORSMiddleware(s.cors),
	)(s.router)
}

// ============================================================================
// CHAT HANDLER
// ============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req proxy.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds maximum size of %d bytes", s.maxBody))
			return
		}
		s.logger.Info("INVALID_BODY", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if s.chat == nil {
		s.metrics.ChatReplies.WithLabelValues("unknown", "unconfigured").Inc()
		writeError(w, http.StatusServiceUnavailable, "Chat is not configured")
		return
	}

	lang := languageLabel(req.Language)
	reply, err := s.chat.Respond(r.Context(), req)
	switch {
	case err == nil:
		s.metrics.ChatReplies.WithLabelValues(lang, "ok").Inc()
		s.metrics.Upstream.WithLabelValues("ok").Observe(time.Since(start).Seconds())
		writeJSON(w, http.StatusOK, proxy.Response{Response: reply})

	case errors.Is(err, proxy.ErrInvalidRequest):
		s.metrics.ChatReplies.WithLabelValues("invalid", "invalid").Inc()
		s.logger.Info("INVALID_REQUEST", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		s.metrics.ChatReplies.WithLabelValues(lang, "upstream_error").Inc()
		s.metrics.Upstream.WithLabelValues("error").Observe(time.Since(start).Seconds())
		// Full detail stays in the log; the client gets a fixed message.
		s.logger.Error("CHAT_FAILED", zap.Error(err), zap.Duration("duration", time.Since(start)))
		writeError(w, http.StatusInternalServerError, proxy.ErrUpstream.Error())
	}
}

// languageLabel is the metrics label for a request language: the parsed
// code, so "" counts as en, or "invalid".
func languageLabel(code string) string {
	lang, err := model.ParseLanguage(code)
	if err != nil {
		return "invalid"
	}
	return lang.String()
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Upstream string `json:"upstream"`
	Uptime   string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:   "ok",
		Version:  Version,
		Upstream: "configured",
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
	}
	if !s.upstreamConfigured {
		health.Status = "degraded"
		health.Upstream = "not_configured"
	}
	writeJSON(w, http.StatusOK, health)
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	// No WriteTimeout: an upstream call has no deadline of its own.
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Info("SERVER_START", zap.String("addr", ln.Addr().String()), zap.String("version", Version))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("SERVER_SHUTDOWN")
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the {"error": message} body used by every failure.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, proxy.ErrorResponse{Error: message})
}
