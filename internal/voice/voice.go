// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jeranaias/apexchat/internal/model"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// ErrorCode categorizes a recognition failure.
type ErrorCode string

const (
	CodeNoSpeech          ErrorCode = "no-speech"
	CodeNotAllowed        ErrorCode = "not-allowed"
	CodeNetwork           ErrorCode = "network"
	CodeAborted           ErrorCode = "aborted"
	CodeAudioCapture      ErrorCode = "audio-capture"
	CodeServiceNotAllowed ErrorCode = "service-not-allowed"
	CodeOther             ErrorCode = "other"
)

// ErrUnavailable is returned by Start when speech input is not supported.
var ErrUnavailable = errors.New("speech recognition is not available")

// Error is a categorized recognition failure.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "speech recognition: " + string(e.Code)
	}
	return fmt.Sprintf("speech recognition: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the category of err; uncategorized errors are CodeOther.
func CodeOf(err error) ErrorCode {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return CodeOther
}

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies a session event.
type EventKind int

const (
	EventPartial EventKind = iota
	EventFinal
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventPartial:
		return "partial"
	case EventFinal:
		return "final"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one recognition update. Transcript is set for partial and final
// events, Code for error events.
type Event struct {
	Kind       EventKind
	Transcript string
	Code       ErrorCode
}

// Terminal reports whether the event ends the session.
func (e Event) Terminal() bool {
	return e.Kind != EventPartial
}

// =============================================================================
// RECOGNIZER
// =============================================================================

// Recognizer starts speech sessions.
type Recognizer interface {
	// Available reports whether speech input works on this platform.
	Available() bool

	// Start begins listening for one utterance in lang.
	Start(ctx context.Context, lang model.Language) (*Session, error)
}

// CaptureFunc listens for one utterance. It reports the transcript heard so
// far through partial and returns the final transcript. It must return
// promptly once ctx is done.
type CaptureFunc func(ctx context.Context, partial func(transcript string)) (string, error)

// =============================================================================
// SESSION
// =============================================================================

const eventBuffer = 16

// Session is one utterance being recognized.
type Session struct {
	events chan Event
	stop   context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
}

// NewSession runs capture on a new goroutine and returns its session.
// Cancelling ctx aborts the session; Stop ends it keeping the transcript.
func NewSession(ctx context.Context, capture CaptureFunc) *Session {
	captureCtx, stop := context.WithCancel(ctx)
	s := &Session{
		events: make(chan Event, eventBuffer),
		stop:   stop,
		done:   make(chan struct{}),
	}
	go s.run(ctx, captureCtx, capture)
	return s
}

func (s *Session) run(parent, ctx context.Context, capture CaptureFunc) {
	defer close(s.done)
	defer close(s.events)
	defer s.stop()

	var last string
	partial := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" || t == last {
			return
		}
		last = t
		// One slot stays free for the terminal event.
		if len(s.events) < cap(s.events)-1 {
			s.events <- Event{Kind: EventPartial, Transcript: t}
		}
	}

	final, err := capture(ctx, partial)
	final = strings.TrimSpace(final)
	if final == "" {
		final = last
	}
	s.events <- s.terminal(parent, final, err)
}

// terminal decides the closing event of a finished capture.
func (s *Session) terminal(parent context.Context, final string, err error) Event {
	switch {
	case parent.Err() != nil:
		return Event{Kind: EventError, Code: CodeAborted}
	case s.wasStopped():
		// Manual stop keeps what was heard, even if empty.
		return Event{Kind: EventFinal, Transcript: final}
	case err != nil:
		return Event{Kind: EventError, Code: CodeOf(err)}
	case final == "":
		return Event{Kind: EventError, Code: CodeNoSpeech}
	default:
		return Event{Kind: EventFinal, Transcript: final}
	}
}

// Events returns the event stream. It is closed after the terminal event.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Stop ends listening. The session still delivers a final event with the
// transcript heard so far.
func (s *Session) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.stop()
}

func (s *Session) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Done is closed when the session goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// =============================================================================
// UNAVAILABLE
// =============================================================================

// Unavailable is a Recognizer for platforms without speech input.
type Unavailable struct{}

// Available always reports false.
func (Unavailable) Available() bool { return false }

// Start always fails with ErrUnavailable.
func (Unavailable) Start(context.Context, model.Language) (*Session, error) {
	return nil, ErrUnavailable
}
