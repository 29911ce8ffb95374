// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/apexchat/internal/ui/styles"
	"github.com/jeranaias/apexchat/internal/widget"
)

// formResult is what a form key press asks the model to do.
type formResult int

const (
	formContinue formResult = iota
	formSubmit
	formClose
)

// =============================================================================
// PRICE CALCULATOR FORM
// =============================================================================

// calculatorForm selects services, scale and complexity. Rows are the
// services followed by the scale and complexity pickers.
type calculatorForm struct {
	focus      int
	selected   map[int]bool
	scale      int
	complexity int
	err        string
}

func newCalculatorForm() *calculatorForm {
	return &calculatorForm{selected: make(map[int]bool)}
}

func (f *calculatorForm) rows() int {
	return len(widget.Services) + 2
}

func (f *calculatorForm) scaleRow() int      { return len(widget.Services) }
func (f *calculatorForm) complexityRow() int { return len(widget.Services) + 1 }

// request returns the form as an estimate request, services in display
// order.
func (f *calculatorForm) request() widget.EstimateRequest {
	var services []string
	for i, s := range widget.Services {
		if f.selected[i] {
			services = append(services, s)
		}
	}
	return widget.EstimateRequest{
		Services:   services,
		Scale:      widget.Scales()[f.scale],
		Complexity: widget.Complexities()[f.complexity],
	}
}

func (f *calculatorForm) update(msg tea.KeyMsg) formResult {
	switch msg.String() {
	case "esc":
		return formClose
	case "enter":
		return formSubmit
	case "up", "shift+tab":
		f.focus = (f.focus + f.rows() - 1) % f.rows()
	case "down", "tab":
		f.focus = (f.focus + 1) % f.rows()
	case " ", "x":
		if f.focus < len(widget.Services) {
			f.selected[f.focus] = !f.selected[f.focus]
			f.err = ""
		}
	case "left":
		f.cycle(-1)
	case "right":
		f.cycle(1)
	}
	return formContinue
}

func (f *calculatorForm) cycle(delta int) {
	switch f.focus {
	case f.scaleRow():
		n := len(widget.Scales())
		f.scale = (f.scale + n + delta) % n
	case f.complexityRow():
		n := len(widget.Complexities())
		f.complexity = (f.complexity + n + delta) % n
	}
}

func (f *calculatorForm) view(theme *styles.Theme, title string) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render(title))
	b.WriteString("\n")

	for i, s := range widget.Services {
		box := "[ ]"
		if f.selected[i] {
			box = "[x]"
		}
		b.WriteString(f.row(theme, i, box+" "+s))
		b.WriteString("\n")
	}
	b.WriteString(f.row(theme, f.scaleRow(), fmt.Sprintf("Scale:      < %s >", widget.Scales()[f.scale])))
	b.WriteString("\n")
	b.WriteString(f.row(theme, f.complexityRow(), fmt.Sprintf("Complexity: < %s >", widget.Complexities()[f.complexity])))
	b.WriteString("\n\n")

	if est, err := widget.EstimatePrice(f.request()); err == nil {
		b.WriteString(theme.CardTitle.Render(fmt.Sprintf("Estimate: %s - %s",
			widget.FormatMoney(est.Low), widget.FormatMoney(est.High))))
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString(theme.FormError.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(theme.ShortcutDesc.Render("space toggle  left/right change  enter submit  esc close"))
	return theme.FormBox.Render(b.String())
}

func (f *calculatorForm) row(theme *styles.Theme, i int, text string) string {
	if i == f.focus {
		return theme.FormFieldFocus.Render("> " + text)
	}
	return theme.FormField.Render("  " + text)
}

// =============================================================================
// CONSULTATION SCHEDULER FORM
// =============================================================================

const (
	fieldName = iota
	fieldEmail
	fieldDate
	fieldSlot
	fieldTopic
	schedulerFields
)

const dateLayout = "2006-01-02"

// schedulerForm collects a consultation booking.
type schedulerForm struct {
	focus int
	name  textinput.Model
	email textinput.Model
	date  textinput.Model
	slot  int
	topic int
	err   string
}

func newSchedulerForm(now time.Time) *schedulerForm {
	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = 120
		ti.Width = 40
		return ti
	}
	f := &schedulerForm{
		name:  newInput("Your name"),
		email: newInput("you@example.com"),
		date:  newInput(dateLayout),
	}
	f.date.SetValue(widget.EarliestDate(now).Format(dateLayout))
	f.name.Focus()
	return f
}

// booking returns the form as a booking. The date is read in now's zone.
func (f *schedulerForm) booking(now time.Time) (widget.Booking, error) {
	b := widget.Booking{
		Name:  f.name.Value(),
		Email: f.email.Value(),
		Slot:  widget.TimeSlots[f.slot],
		Topic: widget.Topics[f.topic],
	}
	if v := strings.TrimSpace(f.date.Value()); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return b, &widget.FieldError{Field: "date", Message: "must be YYYY-MM-DD"}
		}
		b.Date = d
	}
	return b, nil
}

func (f *schedulerForm) input(i int) *textinput.Model {
	switch i {
	case fieldName:
		return &f.name
	case fieldEmail:
		return &f.email
	case fieldDate:
		return &f.date
	}
	return nil
}

func (f *schedulerForm) setFocus(i int) {
	if in := f.input(f.focus); in != nil {
		in.Blur()
	}
	f.focus = (i + schedulerFields) % schedulerFields
	if in := f.input(f.focus); in != nil {
		in.Focus()
	}
}

func (f *schedulerForm) update(msg tea.KeyMsg) (formResult, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return formClose, nil
	case "enter":
		return formSubmit, nil
	case "up", "shift+tab":
		f.setFocus(f.focus - 1)
		return formContinue, nil
	case "down", "tab":
		f.setFocus(f.focus + 1)
		return formContinue, nil
	}

	switch f.focus {
	case fieldSlot:
		f.slot = cycleIndex(f.slot, len(widget.TimeSlots), msg.String())
		return formContinue, nil
	case fieldTopic:
		f.topic = cycleIndex(f.topic, len(widget.Topics), msg.String())
		return formContinue, nil
	}

	in := f.input(f.focus)
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	f.err = ""
	return formContinue, cmd
}

func cycleIndex(i, n int, key string) int {
	switch key {
	case "left":
		return (i + n - 1) % n
	case "right":
		return (i + 1) % n
	}
	return i
}

func (f *schedulerForm) view(theme *styles.Theme, title string) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render(title))
	b.WriteString("\n")

	rows := []struct {
		label string
		value string
	}{
		{"Name", f.name.View()},
		{"Email", f.email.View()},
		{"Date", f.date.View()},
		{"Time", "< " + widget.TimeSlots[f.slot] + " >"},
		{"Topic", "< " + widget.Topics[f.topic] + " >"},
	}
	for i, r := range rows {
		label := fmt.Sprintf("%-6s ", r.label)
		if i == f.focus {
			b.WriteString(theme.FormFieldFocus.Render("> " + label))
		} else {
			b.WriteString(theme.FormField.Render("  " + label))
		}
		b.WriteString(r.value)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(theme.FormError.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(theme.ShortcutDesc.Render("tab next field  left/right change  enter book  esc close"))
	return theme.FormBox.Render(b.String())
}
