// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// =============================================================================
// CONSULTATION SCHEDULER
// =============================================================================

// TimeSlots are the bookable consultation start times.
var TimeSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

// Topics are the consultation subjects offered in the form.
var Topics = []string{
	"General Consultation",
	"Digital Transformation",
	"Cloud Migration",
	"AI Solutions",
	"Cybersecurity",
	"Pricing Discussion",
}

// Booking is a filled-in consultation form.
type Booking struct {
	Name  string
	Email string
	Date  time.Time
	Slot  string
	Topic string
}

// FieldError names the form field that blocks submission. It wraps
// ErrIncomplete.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrIncomplete
}

// Validate checks the form against now. The date must be tomorrow or later
// in now's time zone.
func (b Booking) Validate(now time.Time) error {
	if strings.TrimSpace(b.Name) == "" {
		return &FieldError{Field: "name", Message: "is required"}
	}
	email := strings.TrimSpace(b.Email)
	if email == "" {
		return &FieldError{Field: "email", Message: "is required"}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return &FieldError{Field: "email", Message: "is not a valid address"}
	}
	if b.Date.IsZero() {
		return &FieldError{Field: "date", Message: "is required"}
	}
	if day(b.Date, now.Location()).Before(day(now, now.Location()).AddDate(0, 0, 1)) {
		return &FieldError{Field: "date", Message: "must be tomorrow or later"}
	}
	if !contains(TimeSlots, b.Slot) {
		return &FieldError{Field: "time", Message: fmt.Sprintf("must be one of %s", strings.Join(TimeSlots, ", "))}
	}
	if !contains(Topics, b.Topic) {
		return &FieldError{Field: "topic", Message: "is not an offered topic"}
	}
	return nil
}

// EarliestDate returns the first bookable day after now.
func EarliestDate(now time.Time) time.Time {
	return day(now, now.Location()).AddDate(0, 0, 1)
}

// day returns midnight in loc of t's calendar date.
func day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
