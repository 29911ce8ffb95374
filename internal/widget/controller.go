// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/classify"
	"github.com/jeranaias/apexchat/internal/locale"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/proxy"
	"github.com/jeranaias/apexchat/internal/textproc"
	"github.com/jeranaias/apexchat/internal/voice"
)

// HistoryWindow is how many recent messages accompany a proxy call.
const HistoryWindow = 5

// Controller errors.
var (
	// ErrAwaitingResponse is returned while a proxy reply is outstanding.
	ErrAwaitingResponse = errors.New("waiting for a response")

	// ErrListening is returned for typed input while voice input is active.
	ErrListening = errors.New("voice input is active")

	// ErrEmptyMessage is returned when sending blank text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNotRun is returned by Resolve for a reply whose Run has not finished.
	ErrNotRun = errors.New("reply has not been run")
)

// State is the primary controller state.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// Responder answers chat requests. *proxy.Service (in process) and
// *proxy.Client (over HTTP) both implement it.
type Responder interface {
	Respond(ctx context.Context, req proxy.Request) (string, error)
}

// Office describes the location card.
type Office struct {
	Address string
	// MapsKey enables the embedded map; without it the card has no map.
	MapsKey string
}

// MapURL returns the embed URL for the office, or "" without a key.
func (o Office) MapURL() string {
	if o.MapsKey == "" || o.Address == "" {
		return ""
	}
	return "https://www.google.com/maps/embed/v1/place?key=" +
		url.QueryEscape(o.MapsKey) + "&q=" + url.QueryEscape(o.Address)
}

// DefaultOfficeAddress is shown when none is configured.
const DefaultOfficeAddress = "100 Innovation Drive, Suite 400, Austin, TX 78701"

// Options configures a Controller.
type Options struct {
	Store      model.Persister
	Responder  Responder
	Recognizer voice.Recognizer
	Language   model.Language
	Office     Office
	Logger     *zap.Logger

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the chat widget state machine.
type Controller struct {
	conv      *model.Conversation
	catalog   *locale.Catalog
	responder Responder
	office    Office
	logger    *zap.Logger
	now       func() time.Time

	state    State
	pending  *PendingReply
	replyTo  string
	expanded map[string]bool

	recognizer     voice.Recognizer
	voiceAvailable bool
	session        *voice.Session
	transcript     string
	voiceErr       string
	voiceErrUntil  time.Time
}

// New creates a controller and loads (or seeds) the conversation.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lang := opts.Language
	if !lang.Valid() {
		lang = model.DefaultLanguage
	}
	rec := opts.Recognizer
	if rec == nil {
		rec = voice.Unavailable{}
	}
	office := opts.Office
	if office.Address == "" {
		office.Address = DefaultOfficeAddress
	}

	cat := locale.For(lang)
	return &Controller{
		conv:           model.NewConversation(opts.Store, cat.Welcome, logger),
		catalog:        cat,
		responder:      opts.Responder,
		office:         office,
		logger:         logger,
		now:            now,
		expanded:       make(map[string]bool),
		recognizer:     rec,
		voiceAvailable: rec.Available(),
	}
}

// State returns the primary state.
func (c *Controller) State() State {
	return c.state
}

// Awaiting reports whether a proxy reply is outstanding.
func (c *Controller) Awaiting() bool {
	return c.state == StateAwaitingResponse
}

// Language returns the selected language.
func (c *Controller) Language() model.Language {
	return c.catalog.Language
}

// Catalog returns the strings of the selected language.
func (c *Controller) Catalog() *locale.Catalog {
	return c.catalog
}

// HistoryErr returns the error that kept saved history from loading. While
// it is non-nil the session is not saved.
func (c *Controller) HistoryErr() error {
	return c.conv.LoadErr()
}

// Messages returns copies of every message in order.
func (c *Controller) Messages() []*model.Message {
	return c.conv.Messages()
}

// TopLevel returns copies of the messages outside threads.
func (c *Controller) TopLevel() []*model.Message {
	return c.conv.TopLevel()
}

// Message returns a copy of one message.
func (c *Controller) Message(id string) (*model.Message, bool) {
	return c.conv.Get(id)
}

// QuickReplies returns the suggestion menu for the latest message.
func (c *Controller) QuickReplies() []string {
	return quickReplies(c.conv.Last(), c.catalog)
}

// =============================================================================
// SENDING
// =============================================================================

// Send appends a user message and answers it. Scheduling and pricing
// requests are answered locally and return a nil PendingReply. Any other
// message returns a PendingReply the caller must Run and then Resolve; the
// controller awaits a response until then.
func (c *Controller) Send(text string) (*PendingReply, error) {
	if c.session != nil {
		return nil, ErrListening
	}
	return c.send(text)
}

func (c *Controller) send(text string) (*PendingReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if c.state == StateAwaitingResponse {
		return nil, ErrAwaitingResponse
	}

	prior := c.conv.Recent(HistoryWindow)
	parent := c.replyTo
	c.replyTo = ""

	user := model.NewUserMessage(text).WithParent(parent)
	if err := c.conv.Append(user); err != nil {
		// The parent vanished (history replaced); send top level.
		c.logger.Warn("REPLY_PARENT_DROPPED", zap.String("parent", parent), zap.Error(err))
		parent = ""
		if err := c.conv.Append(user.WithParent("")); err != nil {
			return nil, fmt.Errorf("append message: %w", err)
		}
	}

	intent := DetectIntent(text)
	c.logger.Debug("MESSAGE_SENT", zap.String("intent", intent.String()), zap.Bool("reply", parent != ""))

	switch intent {
	case IntentScheduling:
		c.appendAssistant(model.NewAssistantMessage(c.catalog.SchedulerIntro).
			WithParent(parent).
			WithAttachment(model.SchedulerPrompt{}))
		return nil, nil

	case IntentPricing:
		c.appendAssistant(model.NewAssistantMessage(c.catalog.CalculatorIntro).
			WithParent(parent).
			WithContext(model.TagPricing).
			WithAttachment(model.CalculatorPrompt{}))
		return nil, nil
	}

	result := classify.Classify(text, prior)
	p := &PendingReply{
		Request:   c.buildRequest(prior, text),
		Intent:    intent,
		Topic:     result.Topic,
		parentID:  parent,
		responder: c.responder,
	}
	c.state = StateAwaitingResponse
	c.pending = p
	return p, nil
}

// buildRequest assembles the proxy history: localized system context, the
// recent messages, then the new user message.
func (c *Controller) buildRequest(prior []*model.Message, text string) proxy.Request {
	msgs := make([]proxy.ChatMessage, 0, len(prior)+2)
	msgs = append(msgs, proxy.ChatMessage{
		Role:    string(model.RoleSystem),
		Content: locale.SystemContext(c.catalog.Language),
	})
	for _, m := range prior {
		msgs = append(msgs, proxy.ChatMessage{
			Role:    string(m.Role),
			Content: textproc.StripLinks(m.Text),
		})
	}
	msgs = append(msgs, proxy.ChatMessage{Role: string(model.RoleUser), Content: text})
	return proxy.Request{Messages: msgs, Language: c.catalog.Language.String()}
}

// Resolve applies a finished reply: one assistant message, or the localized
// error message tagged "error" when the call failed. A reply started before
// Clear or Import is still applied.
func (c *Controller) Resolve(p *PendingReply) (*model.Message, error) {
	if p == nil {
		return nil, nil
	}
	if !p.done {
		return nil, ErrNotRun
	}
	if p == c.pending {
		c.pending = nil
		c.state = StateIdle
	}

	var msg *model.Message
	if p.err != nil {
		c.logger.Warn("REPLY_FAILED", zap.Error(p.err))
		msg = model.NewAssistantMessage(c.catalog.GenericError).WithContext(model.TagError)
	} else {
		msg = model.NewAssistantMessage(p.reply).WithContext(p.Topic.String())
		if p.Intent == IntentLocation {
			msg.WithContext(model.TagLocation).WithAttachment(model.LocationCard{
				Address: c.office.Address,
				MapURL:  c.office.MapURL(),
			})
		}
	}
	msg.WithParent(p.parentID)
	c.appendAssistant(msg)
	return msg.Clone(), nil
}

// Exchange sends text and, when the proxy is involved, waits for the reply
// on the calling goroutine. It returns the assistant message.
func (c *Controller) Exchange(ctx context.Context, text string) (*model.Message, error) {
	p, err := c.Send(text)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return c.conv.Last(), nil
	}
	p.Run(ctx)
	return c.Resolve(p)
}

// appendAssistant appends msg, moving it to the top level if its thread
// parent no longer exists.
func (c *Controller) appendAssistant(msg *model.Message) {
	if err := c.conv.Append(msg); err != nil {
		msg.WithParent("")
		if err := c.conv.Append(msg); err != nil {
			c.logger.Error("APPEND_FAILED", zap.Error(err))
		}
	}
}

// =============================================================================
// PENDING REPLY
// =============================================================================

// PendingReply is one outstanding proxy call. Run may execute on any
// goroutine; it touches no controller state.
type PendingReply struct {
	Request proxy.Request
	Intent  Intent
	Topic   classify.Topic

	parentID  string
	responder Responder

	reply string
	err   error
	done  bool
}

// Run performs the proxy call. It has no timeout of its own; ctx bounds it.
func (p *PendingReply) Run(ctx context.Context) {
	if p.responder == nil {
		p.err = errors.New("no responder configured")
	} else {
		p.reply, p.err = p.responder.Respond(ctx, p.Request)
	}
	p.done = true
}

// Err returns the call error after Run.
func (p *PendingReply) Err() error {
	return p.err
}

// =============================================================================
// THREADING
// =============================================================================

// ReplyTo makes the next sent message a reply to the top-level message id.
// A later call replaces the designation.
func (c *Controller) ReplyTo(id string) error {
	m, ok := c.conv.Get(id)
	if !ok {
		return fmt.Errorf("reply to %s: %w", id, model.ErrUnknownParent)
	}
	if m.IsReply() {
		return fmt.Errorf("reply to %s: %w", id, model.ErrNestedThread)
	}
	c.replyTo = id
	return nil
}

// CancelReply clears the reply designation.
func (c *Controller) CancelReply() {
	c.replyTo = ""
}

// ReplyingTo returns the designated parent message, if any.
func (c *Controller) ReplyingTo() (*model.Message, bool) {
	if c.replyTo == "" {
		return nil, false
	}
	return c.conv.Get(c.replyTo)
}

// ToggleThread flips the expanded state of a thread and returns the new
// state.
func (c *Controller) ToggleThread(id string) bool {
	c.expanded[id] = !c.expanded[id]
	return c.expanded[id]
}

// Thread returns the replies under a top-level message with its view state.
func (c *Controller) Thread(id string) *model.Thread {
	t, ok := c.conv.Threads()[id]
	if !ok {
		t = &model.Thread{ParentID: id}
	}
	t.Expanded = c.expanded[id]
	return t
}

// =============================================================================
// CANNED FLOWS
// =============================================================================

// SubmitEstimate answers a calculator form with the estimated range.
func (c *Controller) SubmitEstimate(req EstimateRequest) (*model.Message, error) {
	if c.state == StateAwaitingResponse {
		return nil, ErrAwaitingResponse
	}
	est, err := EstimatePrice(req)
	if err != nil {
		return nil, err
	}
	msg := model.NewAssistantMessage(fmt.Sprintf(c.catalog.EstimateReply, FormatMoney(est.Low), FormatMoney(est.High))).
		WithContext(model.TagPricing)
	c.appendAssistant(msg)
	return msg.Clone(), nil
}

// SubmitBooking confirms a consultation form. Booking is local only.
func (c *Controller) SubmitBooking(b Booking) (*model.Message, error) {
	if c.state == StateAwaitingResponse {
		return nil, ErrAwaitingResponse
	}
	if err := b.Validate(c.now()); err != nil {
		return nil, err
	}
	text := fmt.Sprintf(c.catalog.SchedulerConfirm,
		strings.TrimSpace(b.Name), b.Topic, b.Date.Format("2006-01-02"), b.Slot, strings.TrimSpace(b.Email))
	msg := model.NewAssistantMessage(text).WithContext(model.TagScheduling)
	c.appendAssistant(msg)
	return msg.Clone(), nil
}

// =============================================================================
// LANGUAGE, CLEAR, IMPORT
// =============================================================================

// SetLanguage switches the widget language. A conversation holding only the
// welcome is reseeded in the new language. Once the user has written, the
// new welcome is appended instead and every earlier message, the old
// welcome included, keeps its text.
func (c *Controller) SetLanguage(lang model.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q", lang)
	}
	if lang == c.catalog.Language {
		return nil
	}
	c.catalog = locale.For(lang)
	if c.conv.Len() == 1 && !c.conv.Last().IsUser() {
		c.conv.Clear(c.catalog.Welcome)
	} else {
		c.appendAssistant(model.NewAssistantMessage(c.catalog.Welcome))
	}
	c.logger.Info("LANGUAGE_CHANGED", zap.String("language", lang.String()))
	return nil
}

// Clear resets the conversation to the welcome message.
func (c *Controller) Clear() {
	c.conv.Clear(c.catalog.Welcome)
	c.replyTo = ""
	c.expanded = make(map[string]bool)
}

// Import replaces the conversation with imported messages.
func (c *Controller) Import(msgs []*model.Message) error {
	if c.state == StateAwaitingResponse {
		return ErrAwaitingResponse
	}
	if err := c.conv.Replace(msgs); err != nil {
		return err
	}
	c.replyTo = ""
	c.expanded = make(map[string]bool)
	c.logger.Info("HISTORY_IMPORTED", zap.Int("messages", len(msgs)))
	return nil
}
