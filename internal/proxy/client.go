// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatPath is the route the proxy endpoint is served on.
const ChatPath = "/api/chat"

// maxReplySize bounds how much of a proxy reply is read.
const maxReplySize = 1 << 20

// Response is the success body of a chat call.
type Response struct {
	Response string `json:"response"`
}

// ErrorResponse is the failure body of a chat call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Client calls a remote proxy endpoint over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the proxy at baseURL, for example
// "http://127.0.0.1:8787". A URL that already ends in ChatPath is used as is.
func NewClient(baseURL string) *Client {
	endpoint := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(endpoint, ChatPath) {
		endpoint += ChatPath
	}
	// No Timeout: calls are bounded by the caller's context only.
	return &Client{endpoint: endpoint, httpClient: &http.Client{}}
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Endpoint returns the full chat URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Respond posts req and returns the annotated reply text. Every failure
// wraps ErrUpstream.
func (c *Client) Respond(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUpstream, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, e.Error)
		}
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(r.Response) == "" {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	return r.Response, nil
}
