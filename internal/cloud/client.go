// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the Gemini integration used by the chat proxy.
package cloud

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Configuration constants for the Gemini API.
const (
	// DefaultModel is the generative model used when none is configured.
	DefaultModel = "gemini-2.0-flash"
)

var (
	// sharedHTTPClient pools connections for every Gemini request. It has no
	// Timeout: a call is bounded only by the caller's context.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
)

// Error variables for common Gemini failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("Gemini API key not configured")

	// ErrEmptyResponse indicates the API answered without any text.
	ErrEmptyResponse = errors.New("Gemini returned no text")
)

// =============================================================================
// GEMINI CLIENT
// =============================================================================

// GeminiClient sends single-shot prompts to the Gemini API. It is safe for
// concurrent use; the underlying genai client is created on first use.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu     sync.RWMutex
	model  string
	client *genai.Client
}

// NewGeminiClient creates a client for the given API key.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:     strings.TrimSpace(apiKey),
		model:      DefaultModel,
		httpClient: sharedHTTPClient,
		logger:     zap.NewNop(),
	}
}

// WithBaseURL points the client at a different API endpoint.
func (c *GeminiClient) WithBaseURL(url string) *GeminiClient {
	c.baseURL = strings.TrimRight(url, "/") + "/"
	return c
}

// WithHTTPClient replaces the shared HTTP client.
func (c *GeminiClient) WithHTTPClient(hc *http.Client) *GeminiClient {
	c.httpClient = hc
	return c
}

// WithLogger sets the logger used for request logging.
func (c *GeminiClient) WithLogger(logger *zap.Logger) *GeminiClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithModel sets the model and returns the client.
func (c *GeminiClient) WithModel(model string) *GeminiClient {
	c.SetModel(model)
	return c
}

// SetModel changes the model for later calls. Empty resets to DefaultModel.
func (c *GeminiClient) SetModel(model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
}

// Model returns the current model name.
func (c *GeminiClient) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// IsConfigured reports whether an API key is set.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key for
// logs. The key itself is never logged.
func (c *GeminiClient) KeyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

func (c *GeminiClient) genaiClient(ctx context.Context) (*genai.Client, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return client, nil
}

// Generate sends one prompt and returns the reply text. It makes exactly one
// request: no retries, no streaming.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	client, err := c.genaiClient(ctx)
	if err != nil {
		return "", err
	}

	model := c.Model()
	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("GEMINI_ERROR",
			zap.String("model", model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		c.logger.Warn("GEMINI_EMPTY", zap.String("model", model), zap.Duration("duration", duration))
		return "", ErrEmptyResponse
	}

	c.logger.Debug("GEMINI_RESPONSE",
		zap.String("model", model),
		zap.Duration("duration", duration),
		zap.Int("chars", len(text)),
	)
	return text, nil
}
