// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
//  1. --confirm proceeds without prompting
//  2. --json requires --confirm
//  3. A non-terminal stdin requires --confirm
//  4. Otherwise the user is asked
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrConfirmationRequired is returned when a prompt is impossible and
// --confirm was not given.
var ErrConfirmationRequired = errors.New("confirmation required; use --confirm")

// ConfirmationOptions controls RequireConfirmation.
type ConfirmationOptions struct {
	// ConfirmFlag indicates --confirm was passed
	ConfirmFlag bool
	// JSONMode indicates --json was passed
	JSONMode bool
}

// RequireConfirmation reports whether the user confirmed action.
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}
	if opts.JSONMode || !IsTTY() {
		return false, ErrConfirmationRequired
	}
	return promptConfirm(os.Stdin, os.Stdout, action)
}

// promptConfirm asks a y/N question on out and reads the answer from in.
// Anything but an explicit yes is a no.
func promptConfirm(in io.Reader, out io.Writer, action string) (bool, error) {
	fmt.Fprintf(out, "Are you sure you want to %s? [y/N]: ", action)
	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	yes, err := ParseBoolString(strings.TrimSpace(input))
	if err != nil {
		return false, nil
	}
	return yes, nil
}
