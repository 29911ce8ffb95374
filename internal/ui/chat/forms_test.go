// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/apexchat/internal/ui/styles"
	"github.com/jeranaias/apexchat/internal/widget"
)

func TestCycleIndex(t *testing.T) {
	tests := []struct {
		i, n int
		key  string
		want int
	}{
		{0, 3, "right", 1},
		{2, 3, "right", 0},
		{0, 3, "left", 2},
		{1, 3, "left", 0},
		{1, 3, "a", 1},
	}
	for _, tt := range tests {
		if got := cycleIndex(tt.i, tt.n, tt.key); got != tt.want {
			t.Errorf("cycleIndex(%d, %d, %q) = %d, want %d", tt.i, tt.n, tt.key, got, tt.want)
		}
	}
}

func TestCalculatorForm_Request(t *testing.T) {
	f := newCalculatorForm()
	right := tea.KeyMsg{Type: tea.KeyRight}
	down := tea.KeyMsg{Type: tea.KeyDown}
	toggle := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	// Select the second and first services; order follows the list.
	f.update(down)
	f.update(toggle)
	f.update(tea.KeyMsg{Type: tea.KeyUp})
	f.update(toggle)

	// Move to the scale row and pick the next scale.
	for f.focus != f.scaleRow() {
		f.update(down)
	}
	f.update(right)
	f.update(down)
	f.update(right)
	f.update(right)

	req := f.request()
	require.Equal(t, []string{widget.Services[0], widget.Services[1]}, req.Services)
	require.Equal(t, widget.Scales()[1], req.Scale)
	require.Equal(t, widget.Complexities()[2], req.Complexity)

	// Toggles on a picker row do nothing.
	f.update(toggle)
	require.Len(t, f.request().Services, 2)

	require.Equal(t, formSubmit, f.update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Equal(t, formClose, f.update(tea.KeyMsg{Type: tea.KeyEsc}))
}

func TestCalculatorForm_FocusWraps(t *testing.T) {
	f := newCalculatorForm()
	f.update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, f.complexityRow(), f.focus)
	f.update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 0, f.focus)
}

func TestCalculatorForm_ViewShowsEstimate(t *testing.T) {
	f := newCalculatorForm()
	theme := styles.NewTheme()
	require.NotContains(t, f.view(theme, "Price Calculator"), "Estimate:")

	f.selected[0] = true
	require.Contains(t, f.view(theme, "Price Calculator"), "Estimate: $3,200 - $4,800")
}

func TestSchedulerForm_Booking(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	f := newSchedulerForm(now)
	f.name.SetValue("Ada")
	f.email.SetValue("ada@example.com")
	f.setFocus(fieldSlot)
	f.update(tea.KeyMsg{Type: tea.KeyRight})
	f.setFocus(fieldTopic)
	f.update(tea.KeyMsg{Type: tea.KeyLeft})

	b, err := f.booking(now)
	require.NoError(t, err)
	require.Equal(t, widget.TimeSlots[1], b.Slot)
	require.Equal(t, widget.Topics[len(widget.Topics)-1], b.Topic)
	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), b.Date)
	require.NoError(t, b.Validate(now))
}

func TestSchedulerForm_BadDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	f := newSchedulerForm(now)
	f.date.SetValue("next tuesday")

	_, err := f.booking(now)
	var fe *widget.FieldError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "date", fe.Field)
	require.ErrorIs(t, err, widget.ErrIncomplete)
}

func TestSchedulerForm_FocusWraps(t *testing.T) {
	f := newSchedulerForm(time.Now())
	require.True(t, f.name.Focused())

	f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, fieldTopic, f.focus)
	require.False(t, f.name.Focused())

	f.update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldName, f.focus)
	require.True(t, f.name.Focused())
}
