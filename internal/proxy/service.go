// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package proxy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/textproc"
)

// Limits applied to incoming requests.
const (
	// MaxMessageCount is the maximum number of history entries per request.
	MaxMessageCount = 100

	// MaxMessageLength is the maximum length of one entry in bytes.
	MaxMessageLength = 16 * 1024
)

var (
	// ErrInvalidRequest wraps every validation failure.
	ErrInvalidRequest = errors.New("invalid chat request")

	// ErrUpstream means the generative service failed: transport error,
	// non-success status, or an empty or malformed reply.
	ErrUpstream = errors.New("failed to get response")
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatMessage is one history entry as sent by the widget.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the body of a chat call.
type Request struct {
	Messages []ChatMessage `json:"messages"`
	Language string        `json:"language"`
}

// Validate checks the request shape and returns the parsed language.
func (r *Request) Validate() (model.Language, error) {
	if len(r.Messages) == 0 {
		return "", fmt.Errorf("%w: request must contain at least one message", ErrInvalidRequest)
	}
	if len(r.Messages) > MaxMessageCount {
		return "", fmt.Errorf("%w: too many messages: maximum is %d", ErrInvalidRequest, MaxMessageCount)
	}
	for i, m := range r.Messages {
		if !model.Role(m.Role).Valid() {
			return "", fmt.Errorf("%w: invalid role %q at message %d: must be one of user, assistant, system", ErrInvalidRequest, m.Role, i)
		}
		if len(m.Content) > MaxMessageLength {
			return "", fmt.Errorf("%w: message %d exceeds maximum length of %d", ErrInvalidRequest, i, MaxMessageLength)
		}
	}
	if last := r.Messages[len(r.Messages)-1]; last.Role != string(model.RoleUser) {
		return "", fmt.Errorf("%w: last message must have role user", ErrInvalidRequest)
	}
	lang, err := model.ParseLanguage(r.Language)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return lang, nil
}

// LatestUserMessage returns the content of the final entry.
func (r *Request) LatestUserMessage() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Content
}

// =============================================================================
// SERVICE
// =============================================================================

// Generator produces a reply for a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service answers chat requests. It holds no per-call state and is safe for
// concurrent use.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// NewService creates a Service calling gen. A nil logger disables logging.
func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, logger: logger}
}

// Respond validates req, makes exactly one upstream call and returns the
// post-processed reply with link annotations. Errors wrap ErrInvalidRequest
// or ErrUpstream.
func (s *Service) Respond(ctx context.Context, req Request) (string, error) {
	lang, err := req.Validate()
	if err != nil {
		return "", err
	}
	if s.gen == nil {
		return "", fmt.Errorf("%w: no generator configured", ErrUpstream)
	}

	prompt := BuildPrompt(lang, req.LatestUserMessage())
	start := time.Now()
	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("UPSTREAM_ERROR",
			zap.String("language", lang.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	res := textproc.Process(raw)
	if res.Linked == "" {
		s.logger.Error("UPSTREAM_EMPTY", zap.String("language", lang.String()))
		return "", fmt.Errorf("%w: reply was empty after cleanup", ErrUpstream)
	}

	s.logger.Info("CHAT_RESPONSE",
		zap.String("language", lang.String()),
		zap.Int("history", len(req.Messages)),
		zap.Duration("duration", time.Since(start)),
	)
	return res.Linked, nil
}
