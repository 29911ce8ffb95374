// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/voice"
)

// VoiceErrorDisplay is how long a recognition error stays visible.
const VoiceErrorDisplay = 3 * time.Second

// ErrVoiceUnavailable is returned by StartVoice on platforms without speech
// input.
var ErrVoiceUnavailable = errors.New("voice input is not available")

// VoiceAvailable reports whether speech input exists. It is probed once
// when the controller is created.
func (c *Controller) VoiceAvailable() bool {
	return c.voiceAvailable
}

// Listening reports whether a voice session is active.
func (c *Controller) Listening() bool {
	return c.session != nil
}

// Transcript returns the partial transcript of the active session.
func (c *Controller) Transcript() string {
	return c.transcript
}

// StartVoice begins listening. Only an idle controller can listen. The
// returned channel carries the session events; feed each one to
// HandleVoiceEvent on the controller's goroutine.
func (c *Controller) StartVoice(ctx context.Context) (<-chan voice.Event, error) {
	if !c.voiceAvailable {
		return nil, ErrVoiceUnavailable
	}
	if c.session != nil {
		return nil, ErrListening
	}
	if c.state == StateAwaitingResponse {
		return nil, ErrAwaitingResponse
	}

	s, err := c.recognizer.Start(ctx, c.catalog.Language)
	if err != nil {
		c.failVoice(voice.CodeOf(err))
		return nil, err
	}
	c.session = s
	c.transcript = ""
	c.voiceErr = ""
	c.logger.Debug("VOICE_START", zap.String("language", c.catalog.Language.String()))
	return s.Events(), nil
}

// StopVoice ends listening early. The session still delivers its final
// event, which sends what was heard.
func (c *Controller) StopVoice() {
	if c.session != nil {
		c.session.Stop()
	}
}

// HandleVoiceEvent applies one session event. A final transcript is sent
// like typed input and may return a PendingReply. Events arriving when no
// session is active are ignored.
func (c *Controller) HandleVoiceEvent(ev voice.Event) (*PendingReply, error) {
	if c.session == nil {
		return nil, nil
	}
	switch ev.Kind {
	case voice.EventPartial:
		c.transcript = ev.Transcript
		return nil, nil

	case voice.EventError:
		c.session = nil
		c.transcript = ""
		c.failVoice(ev.Code)
		return nil, nil

	default:
		c.session = nil
		c.transcript = ""
		if ev.Transcript == "" {
			return nil, nil
		}
		return c.send(ev.Transcript)
	}
}

// failVoice shows the localized error for code until VoiceErrorDisplay
// passes.
func (c *Controller) failVoice(code voice.ErrorCode) {
	c.voiceErr = c.catalog.VoiceError(string(code))
	c.voiceErrUntil = c.now().Add(VoiceErrorDisplay)
	c.logger.Info("VOICE_ERROR", zap.String("code", string(code)))
}

// VoiceError returns the visible recognition error, or "" once it has
// expired.
func (c *Controller) VoiceError() string {
	if c.voiceErr == "" || !c.now().Before(c.voiceErrUntil) {
		return ""
	}
	return c.voiceErr
}

// VoiceErrorExpiry returns when the current voice error disappears.
func (c *Controller) VoiceErrorExpiry() time.Time {
	return c.voiceErrUntil
}
