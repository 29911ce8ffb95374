// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ErrIncomplete is returned when a canned form is submitted before every
// required field is filled in.
var ErrIncomplete = errors.New("form is incomplete")

// =============================================================================
// PRICE CALCULATOR
// =============================================================================

const (
	// BasePrice is the starting estimate in dollars.
	BasePrice = 5000

	// perServiceFactor scales the service count: the multiplier is
	// max(1, n) × 0.8, so one service gives 0.8 (an estimate of 4000 at
	// startup scale and basic complexity, range 3200 to 4800) and n ≥ 2
	// gives 0.8n.
	perServiceFactor = 0.8

	// Range bounds around the estimate.
	rangeLow  = 0.8
	rangeHigh = 1.2
)

// Services offered in the calculator, in display order.
var Services = []string{
	"Cloud & Infrastructure",
	"AI & Machine Learning",
	"Digital Transformation",
	"Cybersecurity",
	"Data Analytics",
	"Custom Software Development",
}

// Scale is the size of the client organization.
type Scale string

const (
	ScaleStartup       Scale = "startup"
	ScaleSmallBusiness Scale = "small-business"
	ScaleEnterprise    Scale = "enterprise"
)

// Scales lists the scales in display order.
func Scales() []Scale {
	return []Scale{ScaleStartup, ScaleSmallBusiness, ScaleEnterprise}
}

// Multiplier returns the price factor of the scale.
func (s Scale) Multiplier() (float64, bool) {
	switch s {
	case ScaleStartup:
		return 1, true
	case ScaleSmallBusiness:
		return 1.5, true
	case ScaleEnterprise:
		return 2.5, true
	}
	return 0, false
}

// Complexity is the technical depth of the project.
type Complexity string

const (
	ComplexityBasic    Complexity = "basic"
	ComplexityStandard Complexity = "standard"
	ComplexityAdvanced Complexity = "advanced"
)

// Complexities lists the complexities in display order.
func Complexities() []Complexity {
	return []Complexity{ComplexityBasic, ComplexityStandard, ComplexityAdvanced}
}

// Multiplier returns the price factor of the complexity.
func (c Complexity) Multiplier() (float64, bool) {
	switch c {
	case ComplexityBasic:
		return 1, true
	case ComplexityStandard:
		return 1.5, true
	case ComplexityAdvanced:
		return 2, true
	}
	return 0, false
}

// EstimateRequest is a filled-in calculator form.
type EstimateRequest struct {
	Services   []string
	Scale      Scale
	Complexity Complexity
}

// Estimate is a computed price range in dollars.
type Estimate struct {
	Amount int64
	Low    int64
	High   int64
}

// Validate reports whether the form can be submitted. An empty service
// selection is ErrIncomplete.
func (r EstimateRequest) Validate() error {
	if len(r.Services) == 0 {
		return fmt.Errorf("%w: select at least one service", ErrIncomplete)
	}
	for _, s := range r.Services {
		if !knownService(s) {
			return fmt.Errorf("unknown service %q", s)
		}
	}
	if _, ok := r.Scale.Multiplier(); !ok {
		return fmt.Errorf("%w: unknown scale %q", ErrIncomplete, r.Scale)
	}
	if _, ok := r.Complexity.Multiplier(); !ok {
		return fmt.Errorf("%w: unknown complexity %q", ErrIncomplete, r.Complexity)
	}
	return nil
}

// EstimatePrice computes
//
//	base × max(1, services) × 0.8 × scale × complexity
//
// rounded to the nearest thousand, with a range of 0.8× to 1.2×. Repeated
// services count once.
func EstimatePrice(r EstimateRequest) (Estimate, error) {
	if err := r.Validate(); err != nil {
		return Estimate{}, err
	}
	scale, _ := r.Scale.Multiplier()
	complexity, _ := r.Complexity.Multiplier()

	n := distinct(r.Services)
	servicesMultiplier := math.Max(1, float64(n)) * perServiceFactor

	raw := BasePrice * servicesMultiplier * scale * complexity
	amount := int64(math.Round(raw/1000) * 1000)
	return Estimate{
		Amount: amount,
		Low:    int64(math.Round(float64(amount) * rangeLow)),
		High:   int64(math.Round(float64(amount) * rangeHigh)),
	}, nil
}

// FormatMoney renders a dollar amount with thousands separators.
func FormatMoney(amount int64) string {
	return "$" + humanize.Comma(amount)
}

func knownService(name string) bool {
	for _, s := range Services {
		if s == name {
			return true
		}
	}
	return false
}

func distinct(items []string) int {
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		seen[s] = true
	}
	return len(seen)
}
