// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// ATTACHMENT VARIANTS
// =============================================================================

// AttachmentKind identifies the concrete attachment variant.
type AttachmentKind string

const (
	AttachmentLocation   AttachmentKind = "location"
	AttachmentCalculator AttachmentKind = "calculator"
	AttachmentScheduler  AttachmentKind = "scheduler"
)

// Attachment is the interactive payload a message may carry. The set of
// implementations is closed: LocationCard, CalculatorPrompt and
// SchedulerPrompt. A message has at most one.
type Attachment interface {
	Kind() AttachmentKind
	attachment()
}

// LocationCard renders the office address with an embedded map.
type LocationCard struct {
	Address string
	// MapURL is the embed URL for the map frame. Empty when no maps
	// credential is configured; the address is still shown.
	MapURL string
}

// Kind implements Attachment.
func (LocationCard) Kind() AttachmentKind { return AttachmentLocation }
func (LocationCard) attachment()          {}

// CalculatorPrompt invites the user to open the price estimator.
type CalculatorPrompt struct{}

// Kind implements Attachment.
func (CalculatorPrompt) Kind() AttachmentKind { return AttachmentCalculator }
func (CalculatorPrompt) attachment()          {}

// SchedulerPrompt invites the user to open the consultation booking form.
type SchedulerPrompt struct{}

// Kind implements Attachment.
func (SchedulerPrompt) Kind() AttachmentKind { return AttachmentScheduler }
func (SchedulerPrompt) attachment()          {}
