// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/export"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/ui/styles"
	"github.com/jeranaias/apexchat/internal/widget"
)

// Mode is what the main area shows.
type Mode int

const (
	ModeChat Mode = iota
	ModeCalculator
	ModeScheduler
	ModeHelp
)

// Options configures the chat model.
type Options struct {
	Theme *styles.Theme

	// Context is passed to proxy calls and voice sessions unchanged.
	// Default: Background.
	Context context.Context

	// ExportDir and ExportFormat control the export key.
	ExportDir    string
	ExportFormat string

	Logger *zap.Logger
	Now    func() time.Time
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat widget.
type Model struct {
	ctrl  *widget.Controller
	theme *styles.Theme
	keys  KeyMap

	ctx          context.Context
	exportDir    string
	exportFormat string
	logger       *zap.Logger
	now          func() time.Time

	// Dimensions
	width  int
	height int

	mode Mode

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// selected indexes TopLevel; -1 follows the latest message.
	selected int
	// chip indexes QuickReplies; -1 is none.
	chip int
	// follow keeps the viewport pinned to the bottom.
	follow bool

	calculator *calculatorForm
	scheduler  *schedulerForm

	status string
}

// New creates the chat model around ctrl.
func New(ctrl *widget.Controller, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	format := opts.ExportFormat
	if format == "" {
		format = "markdown"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = ctrl.Catalog().Placeholder
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Thinking

	m := Model{
		ctrl:         ctrl,
		theme:        theme,
		keys:         DefaultKeyMap(),
		ctx:          ctx,
		exportDir:    opts.ExportDir,
		exportFormat: format,
		logger:       logger,
		now:          now,
		viewport:     viewport.New(80, 20),
		input:        ti,
		spinner:      sp,
		selected:     -1,
		chip:         -1,
		follow:       true,
	}
	if err := ctrl.HistoryErr(); err != nil {
		m.status = styles.RenderWarning("History unreadable, not saving: " + err.Error())
	}
	m.width, m.height = 80, 24
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns what the main area shows.
func (m Model) Mode() Mode {
	return m.mode
}

// Status returns the transient status line.
func (m Model) Status() string {
	return m.status
}

// Controller returns the widget controller driven by the model.
func (m Model) Controller() *widget.Controller {
	return m.ctrl
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case VoiceEventMsg:
		return m.handleVoiceEvent(msg)

	case voiceClosedMsg:
		return m, nil

	case VoiceErrorExpiredMsg:
		m.refresh()
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.status = styles.RenderError("Export failed: " + msg.Err.Error())
		} else {
			m.status = styles.RenderSuccess("Exported to " + msg.Path)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Awaiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeCalculator:
		return m.handleCalculatorKey(msg)
	case ModeScheduler:
		return m.handleSchedulerKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
			m.mode = ModeChat
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Cancel):
		switch {
		case m.ctrl.Listening():
			m.ctrl.StopVoice()
		case m.hasReply():
			m.ctrl.CancelReply()
		default:
			m.selected = -1
			m.chip = -1
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.PrevMessage):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextMessage):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.follow = m.viewport.AtBottom()
		return m, cmd

	case key.Matches(msg, m.keys.NextChip):
		m.cycleChip(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevChip):
		m.cycleChip(-1)
		return m, nil

	case key.Matches(msg, m.keys.Reply):
		if id, ok := m.selectedID(); ok {
			if err := m.ctrl.ReplyTo(id); err != nil {
				m.status = styles.RenderWarning(err.Error())
			}
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Thread):
		if id, ok := m.selectedID(); ok {
			m.ctrl.ToggleThread(id)
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Voice):
		return m.toggleVoice()

	case key.Matches(msg, m.keys.Language):
		return m.nextLanguage()

	case key.Matches(msg, m.keys.Calculator):
		m.openCalculator()
		return m, nil

	case key.Matches(msg, m.keys.Scheduler):
		m.openScheduler()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		opts := export.DefaultOptions()
		if m.exportDir != "" {
			opts.OutputDir = m.exportDir
		}
		opts.Language = m.ctrl.Language()
		return m, ExportCmd(m.ctrl.Messages(), m.exportFormat, opts)

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Clear()
		m.selected, m.chip = -1, -1
		m.status = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input, or the selected quick reply when the input is
// empty.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" && m.chip >= 0 {
		if chips := m.ctrl.QuickReplies(); m.chip < len(chips) {
			text = chips[m.chip]
		}
	}

	p, err := m.ctrl.Send(text)
	switch {
	case errors.Is(err, widget.ErrEmptyMessage):
		return m, nil
	case err != nil:
		m.status = styles.RenderWarning(err.Error())
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	return m.afterSend(p)
}

// afterSend follows a successful send: a pending reply starts its proxy
// call, a local answer may open its form.
func (m Model) afterSend(p *widget.PendingReply) (tea.Model, tea.Cmd) {
	m.selected, m.chip = -1, -1
	m.follow = true
	if p == nil {
		m.openPromptedForm()
		m.refresh()
		return m, nil
	}
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, RunReplyCmd(m.ctx, p))
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if _, err := m.ctrl.Resolve(msg.Pending); err != nil {
		m.logger.Warn("REPLY_RESOLVE_FAILED", zap.Error(err))
	}
	m.follow = true
	m.refresh()
	return m, nil
}

// =============================================================================
// VOICE
// =============================================================================

func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	if m.ctrl.Listening() {
		m.ctrl.StopVoice()
		return m, nil
	}
	events, err := m.ctrl.StartVoice(m.ctx)
	if err != nil {
		m.refresh()
		if m.ctrl.VoiceError() != "" {
			return m, expireVoiceErrorCmd(m.ctrl.VoiceErrorExpiry().Sub(m.now()))
		}
		m.status = styles.RenderWarning(err.Error())
		return m, nil
	}
	m.refresh()
	return m, WaitVoiceCmd(events)
}

func (m Model) handleVoiceEvent(msg VoiceEventMsg) (tea.Model, tea.Cmd) {
	before := len(m.ctrl.Messages())
	p, err := m.ctrl.HandleVoiceEvent(msg.Event)
	if !msg.Event.Terminal() {
		m.refresh()
		return m, WaitVoiceCmd(msg.events)
	}
	switch {
	case err != nil:
		m.status = styles.RenderWarning(err.Error())
	case m.ctrl.VoiceError() != "":
		m.refresh()
		return m, expireVoiceErrorCmd(m.ctrl.VoiceErrorExpiry().Sub(m.now()))
	case len(m.ctrl.Messages()) != before:
		return m.afterSend(p)
	}
	m.refresh()
	return m, nil
}

// =============================================================================
// LANGUAGE
// =============================================================================

func (m Model) nextLanguage() (tea.Model, tea.Cmd) {
	langs := model.Languages()
	next := langs[0]
	for i, l := range langs {
		if l == m.ctrl.Language() {
			next = langs[(i+1)%len(langs)]
			break
		}
	}
	if err := m.ctrl.SetLanguage(next); err != nil {
		m.status = styles.RenderWarning(err.Error())
		return m, nil
	}
	m.input.Placeholder = m.ctrl.Catalog().Placeholder
	m.selected, m.chip = -1, -1
	m.refresh()
	return m, nil
}

// =============================================================================
// FORMS
// =============================================================================

// openPromptedForm opens the form a fresh calculator or scheduler prompt
// invites.
func (m *Model) openPromptedForm() {
	last := m.lastMessage()
	if last == nil || last.Attachment == nil {
		return
	}
	switch last.Attachment.Kind() {
	case model.AttachmentCalculator:
		m.openCalculator()
	case model.AttachmentScheduler:
		m.openScheduler()
	}
}

func (m *Model) openCalculator() {
	m.calculator = newCalculatorForm()
	m.mode = ModeCalculator
	m.input.Blur()
}

func (m *Model) openScheduler() {
	m.scheduler = newSchedulerForm(m.now())
	m.mode = ModeScheduler
	m.input.Blur()
}

func (m *Model) closeForm() {
	m.mode = ModeChat
	m.calculator = nil
	m.scheduler = nil
	m.input.Focus()
	m.refresh()
}

func (m Model) handleCalculatorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.calculator.update(msg) {
	case formClose:
		m.closeForm()
	case formSubmit:
		if _, err := m.ctrl.SubmitEstimate(m.calculator.request()); err != nil {
			m.calculator.err = err.Error()
			return m, nil
		}
		m.follow = true
		m.closeForm()
	}
	return m, nil
}

func (m Model) handleSchedulerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := m.scheduler.update(msg)
	switch result {
	case formClose:
		m.closeForm()
	case formSubmit:
		b, err := m.scheduler.booking(m.now())
		if err == nil {
			_, err = m.ctrl.SubmitBooking(b)
		}
		if err != nil {
			m.scheduler.err = err.Error()
			return m, nil
		}
		m.follow = true
		m.closeForm()
	}
	return m, cmd
}

// =============================================================================
// SELECTION
// =============================================================================

func (m *Model) moveSelection(delta int) {
	top := m.ctrl.TopLevel()
	if len(top) == 0 {
		return
	}
	switch {
	case m.selected < 0 && delta < 0:
		m.selected = len(top) - 1
	case m.selected < 0:
		return
	default:
		m.selected += delta
	}
	if m.selected >= len(top) {
		m.selected = -1
	} else if m.selected < 0 {
		m.selected = 0
	}
	m.follow = m.selected < 0
	m.refresh()
}

func (m Model) selectedID() (string, bool) {
	top := m.ctrl.TopLevel()
	i := m.selected
	if i < 0 {
		i = len(top) - 1
	}
	if i < 0 || i >= len(top) {
		return "", false
	}
	return top[i].ID, true
}

func (m *Model) cycleChip(delta int) {
	n := len(m.ctrl.QuickReplies())
	if n == 0 {
		m.chip = -1
		return
	}
	// -1 is part of the cycle so the chips can be left.
	m.chip = (m.chip+1+delta+n+1)%(n+1) - 1
	m.refresh()
}

func (m Model) hasReply() bool {
	_, ok := m.ctrl.ReplyingTo()
	return ok
}

func (m Model) lastMessage() *model.Message {
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}
