// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jeranaias/apexchat/internal/model"
)

// LanguagePlaceholder in a command argument is replaced by the language code.
const LanguagePlaceholder = "{lang}"

// maxStderr bounds how much diagnostic output is kept per session.
const maxStderr = 4096

// CommandRecognizer runs an external speech-to-text program for each
// utterance. The program prints the transcript so far on each stdout line
// and exits at end of utterance.
type CommandRecognizer struct {
	path      string
	args      []string
	available bool
}

// NewCommandRecognizer parses a command line such as
// "whisper-listen --lang {lang}". Availability is probed once here.
func NewCommandRecognizer(commandLine string) *CommandRecognizer {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return &CommandRecognizer{}
	}
	r := &CommandRecognizer{args: fields[1:]}
	if path, err := exec.LookPath(fields[0]); err == nil {
		r.path = path
		r.available = true
	}
	return r
}

// Available reports whether the command was found.
func (r *CommandRecognizer) Available() bool {
	return r.available
}

// Start launches the command for one utterance.
func (r *CommandRecognizer) Start(ctx context.Context, lang model.Language) (*Session, error) {
	if !r.available {
		return nil, ErrUnavailable
	}
	args := make([]string, len(r.args))
	for i, a := range r.args {
		args[i] = strings.ReplaceAll(a, LanguagePlaceholder, lang.String())
	}
	return NewSession(ctx, func(ctx context.Context, partial func(string)) (string, error) {
		return r.capture(ctx, lang, args, partial)
	}), nil
}

func (r *CommandRecognizer) capture(ctx context.Context, lang model.Language, args []string, partial func(string)) (string, error) {
	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.Env = append(os.Environ(), "APEX_VOICE_LANGUAGE="+lang.String())

	var stderr limitedBuffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", &Error{Code: CodeOther, Err: err}
	}
	if err := cmd.Start(); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return "", &Error{Code: CodeServiceNotAllowed, Err: err}
		}
		return "", &Error{Code: CodeOther, Err: err}
	}

	var last string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
			partial(line)
		}
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return last, ctx.Err()
	}
	if waitErr != nil {
		return last, &Error{Code: classifyFailure(stderr.String()), Err: fmt.Errorf("%s: %w", r.path, waitErr)}
	}
	return last, nil
}

// classifyFailure maps recognizer diagnostics to an error category.
func classifyFailure(stderr string) ErrorCode {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "service not allowed"), strings.Contains(s, "service-not-allowed"):
		return CodeServiceNotAllowed
	case strings.Contains(s, "permission denied"), strings.Contains(s, "not allowed"), strings.Contains(s, "not-allowed"):
		return CodeNotAllowed
	case strings.Contains(s, "no speech"), strings.Contains(s, "no-speech"):
		return CodeNoSpeech
	case strings.Contains(s, "network"), strings.Contains(s, "connection"):
		return CodeNetwork
	case strings.Contains(s, "microphone"), strings.Contains(s, "audio"), strings.Contains(s, "device"):
		return CodeAudioCapture
	case strings.Contains(s, "abort"), strings.Contains(s, "interrupt"):
		return CodeAborted
	default:
		return CodeOther
	}
}

// limitedBuffer keeps the first maxStderr bytes written to it.
type limitedBuffer struct {
	bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := maxStderr - b.Len(); room > 0 {
		if len(p) > room {
			b.Buffer.Write(p[:room])
		} else {
			b.Buffer.Write(p)
		}
	}
	return len(p), nil
}
