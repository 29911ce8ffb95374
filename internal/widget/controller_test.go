// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/apexchat/internal/locale"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/proxy"
	"github.com/jeranaias/apexchat/internal/storage"
	"github.com/jeranaias/apexchat/internal/voice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeResponder records requests and returns a canned reply.
type fakeResponder struct {
	reply    string
	err      error
	requests []proxy.Request
}

func (f *fakeResponder) Respond(_ context.Context, req proxy.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

// fakeRecognizer starts sessions running a scripted capture.
type fakeRecognizer struct {
	capture voice.CaptureFunc
	langs   []model.Language
}

func (f *fakeRecognizer) Available() bool { return true }

func (f *fakeRecognizer) Start(ctx context.Context, lang model.Language) (*voice.Session, error) {
	f.langs = append(f.langs, lang)
	return voice.NewSession(ctx, f.capture), nil
}

func utterance(words ...string) voice.CaptureFunc {
	return func(ctx context.Context, partial func(string)) (string, error) {
		for i := range words {
			partial(strings.Join(words[:i+1], " "))
		}
		return strings.Join(words, " "), nil
	}
}

func failing(code voice.ErrorCode) voice.CaptureFunc {
	return func(ctx context.Context, partial func(string)) (string, error) {
		return "", &voice.Error{Code: code}
	}
}

// fakeClock is a settable clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newController(t *testing.T, resp *fakeResponder) *Controller {
	t.Helper()
	return New(Options{
		Store:     storage.NewMemoryBackend(),
		Responder: resp,
		Office:    Office{Address: "1 Main St, Austin", MapsKey: "maps-key"},
	})
}

// exchange sends text and resolves any pending reply.
func exchange(t *testing.T, c *Controller, text string) *model.Message {
	t.Helper()
	msg, err := c.Exchange(context.Background(), text)
	require.NoError(t, err)
	return msg
}

// =============================================================================
// SEND AND INTENT TESTS
// =============================================================================

func TestNew_SeedsWelcome(t *testing.T) {
	c := newController(t, &fakeResponder{})
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, locale.For(model.LanguageEnglish).Welcome, msgs[0].Text)
	require.Equal(t, StateIdle, c.State())
	require.False(t, c.VoiceAvailable())
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"I'd like to book a consultation", IntentScheduling},
		{"Can we schedule a CALL?", IntentScheduling},
		{"How much would a migration cost?", IntentPricing},
		{"Open the price calculator", IntentPricing},
		{"Quel est le prix ?", IntentPricing},
		{"Where is your office?", IntentLocation},
		{"What's your address", IntentLocation},
		{"أين يقع مكتبكم؟", IntentLocation},
		{"Tell me about cloud migration", IntentChat},
		// Scheduling wins over pricing.
		{"How much does a consultation cost?", IntentScheduling},
	}
	for _, tc := range tests {
		if got := DetectIntent(tc.text); got != tc.want {
			t.Errorf("DetectIntent(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestSend_SchedulingIsLocal(t *testing.T) {
	resp := &fakeResponder{reply: "unused"}
	c := newController(t, resp)

	p, err := c.Send("Can I book an appointment?")
	require.NoError(t, err)
	require.Nil(t, p)
	require.Empty(t, resp.requests)

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, model.RoleUser, msgs[1].Role)
	last := msgs[2]
	require.Equal(t, model.AttachmentScheduler, last.Attachment.Kind())
	require.Equal(t, StateIdle, c.State())
}

func TestSend_PricingIsLocal(t *testing.T) {
	resp := &fakeResponder{}
	c := newController(t, resp)

	msg := exchange(t, c, "What would a quote look like?")
	require.Empty(t, resp.requests)
	require.Equal(t, model.AttachmentCalculator, msg.Attachment.Kind())
	require.True(t, msg.HasContext(model.TagPricing))
}

func TestSend_ProxyRoundTrip(t *testing.T) {
	resp := &fakeResponder{reply: "We migrate workloads to the cloud."}
	c := newController(t, resp)

	p, err := c.Send("Tell me about cloud migration")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.True(t, c.Awaiting())
	require.Equal(t, 2, len(c.Messages()), "user message is appended before the reply")

	_, err = c.Send("another one")
	require.ErrorIs(t, err, ErrAwaitingResponse)

	_, err = c.Resolve(p)
	require.ErrorIs(t, err, ErrNotRun)

	p.Run(context.Background())
	msg, err := c.Resolve(p)
	require.NoError(t, err)
	require.Equal(t, "We migrate workloads to the cloud.", msg.Text)
	require.True(t, msg.HasContext("technical"))
	require.Equal(t, StateIdle, c.State())

	req := resp.requests[0]
	require.Equal(t, "en", req.Language)
	require.Equal(t, "system", req.Messages[0].Role)
	require.Equal(t, locale.SystemContext(model.LanguageEnglish), req.Messages[0].Content)
	last := req.Messages[len(req.Messages)-1]
	require.Equal(t, "user", last.Role)
	require.Equal(t, "Tell me about cloud migration", last.Content)
	_, err = req.Validate()
	require.NoError(t, err, "built request must pass proxy validation")
}

func TestSend_HistoryWindow(t *testing.T) {
	resp := &fakeResponder{reply: "ok"}
	c := newController(t, resp)
	for i := 0; i < 4; i++ {
		exchange(t, c, "tell me more")
	}

	exchange(t, c, "and the team?")
	req := resp.requests[len(resp.requests)-1]
	// system + last five + the new message
	require.Len(t, req.Messages, HistoryWindow+2)
}

func TestSend_FailureYieldsErrorMessage(t *testing.T) {
	resp := &fakeResponder{err: errors.New("upstream down")}
	c := newController(t, resp)

	msg := exchange(t, c, "Tell me about your team")
	require.Equal(t, locale.For(model.LanguageEnglish).GenericError, msg.Text)
	require.True(t, msg.HasContext(model.TagError))
	require.Equal(t, StateIdle, c.State())
	require.Len(t, c.Messages(), 3, "exactly one assistant message per send")
}

func TestSend_LocationCard(t *testing.T) {
	resp := &fakeResponder{reply: "Our office is downtown."}
	c := newController(t, resp)

	msg := exchange(t, c, "Where is your office?")
	require.Len(t, resp.requests, 1, "location still calls the proxy")
	require.True(t, msg.HasContext(model.TagLocation))

	card, ok := msg.Attachment.(model.LocationCard)
	require.True(t, ok)
	require.Equal(t, "1 Main St, Austin", card.Address)
	require.Equal(t, "https://www.google.com/maps/embed/v1/place?key=maps-key&q=1+Main+St%2C+Austin", card.MapURL)
}

func TestSend_EmptyRejected(t *testing.T) {
	c := newController(t, &fakeResponder{})
	_, err := c.Send("   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Len(t, c.Messages(), 1)
}

func TestResolve_AfterClearStillApplied(t *testing.T) {
	c := newController(t, &fakeResponder{reply: "late answer"})
	root := c.Messages()[0]
	require.NoError(t, c.ReplyTo(root.ID))

	p, err := c.Send("Tell me about your company")
	require.NoError(t, err)
	c.Clear()
	p.Run(context.Background())

	msg, err := c.Resolve(p)
	require.NoError(t, err)
	require.Equal(t, "late answer", msg.Text)
	require.False(t, c.Messages()[len(c.Messages())-1].IsReply(), "orphaned reply moves to the top level")
}

// =============================================================================
// QUICK REPLY TESTS
// =============================================================================

func TestQuickReplies(t *testing.T) {
	en := locale.For(model.LanguageEnglish)
	tests := []struct {
		name string
		last *model.Message
		want []string
	}{
		{"welcome", model.NewAssistantMessage(en.Welcome), en.GeneralReplies},
		{"pricing", model.NewAssistantMessage("Our pricing starts low."), en.PricingReplies},
		{"support", model.NewAssistantMessage("Our support team is ready."), en.SupportReplies},
		{"nothing matches", model.NewAssistantMessage("Cloud migration takes weeks."), nil},
		{"user message", model.NewUserMessage("hello"), nil},
		{"empty", nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, quickReplies(tc.last, en))
		})
	}

	fr := locale.For(model.LanguageFrench)
	require.Equal(t, fr.GeneralReplies, quickReplies(model.NewAssistantMessage(fr.Welcome), fr))
	ar := locale.For(model.LanguageArabic)
	require.Equal(t, ar.GeneralReplies, quickReplies(model.NewAssistantMessage(ar.Welcome), ar))
}

func TestQuickReplies_OnlyLatestMessage(t *testing.T) {
	c := newController(t, &fakeResponder{reply: "Cloud migration takes weeks."})
	require.NotEmpty(t, c.QuickReplies())

	_, err := c.Send("Tell me about cloud migration")
	require.NoError(t, err)
	require.Empty(t, c.QuickReplies(), "last message is the user's")
}

// =============================================================================
// THREADING TESTS
// =============================================================================

func TestReplyTo_ThreadsBothMessages(t *testing.T) {
	c := newController(t, &fakeResponder{reply: "Sure."})
	root := c.Messages()[0]

	require.NoError(t, c.ReplyTo(root.ID))
	got, ok := c.ReplyingTo()
	require.True(t, ok)
	require.Equal(t, root.ID, got.ID)

	answer := exchange(t, c, "Tell me about your company")
	require.Equal(t, root.ID, answer.ParentID)

	msgs := c.Messages()
	require.Equal(t, root.ID, msgs[1].ParentID, "user message joins the thread")
	parent, _ := c.Message(root.ID)
	require.Equal(t, 2, parent.ReplyCount)

	_, ok = c.ReplyingTo()
	require.False(t, ok, "reply mode ends after one send")
	require.Len(t, c.TopLevel(), 1)
	require.Equal(t, 2, c.Thread(root.ID).Len())
}

func TestReplyTo_Errors(t *testing.T) {
	c := newController(t, &fakeResponder{reply: "Sure."})
	root := c.Messages()[0]
	require.NoError(t, c.ReplyTo(root.ID))
	answer := exchange(t, c, "Tell me about your company")

	require.ErrorIs(t, c.ReplyTo(answer.ID), model.ErrNestedThread)
	require.ErrorIs(t, c.ReplyTo("msg_missing"), model.ErrUnknownParent)

	require.NoError(t, c.ReplyTo(root.ID))
	c.CancelReply()
	_, ok := c.ReplyingTo()
	require.False(t, ok)
}

func TestToggleThread(t *testing.T) {
	c := newController(t, &fakeResponder{})
	id := c.Messages()[0].ID

	require.False(t, c.Thread(id).Expanded)
	require.True(t, c.ToggleThread(id))
	require.True(t, c.Thread(id).Expanded)
	require.False(t, c.ToggleThread(id))
}

// =============================================================================
// CANNED FLOW TESTS
// =============================================================================

func TestEstimatePrice(t *testing.T) {
	tests := []struct {
		name string
		req  EstimateRequest
		want Estimate
	}{
		{
			"one service startup basic",
			EstimateRequest{Services: []string{"Cybersecurity"}, Scale: ScaleStartup, Complexity: ComplexityBasic},
			Estimate{Amount: 4000, Low: 3200, High: 4800},
		},
		{
			"two services small business standard",
			EstimateRequest{Services: []string{"Cybersecurity", "Data Analytics"}, Scale: ScaleSmallBusiness, Complexity: ComplexityStandard},
			Estimate{Amount: 18000, Low: 14400, High: 21600},
		},
		{
			"all services enterprise advanced",
			EstimateRequest{Services: Services, Scale: ScaleEnterprise, Complexity: ComplexityAdvanced},
			Estimate{Amount: 120000, Low: 96000, High: 144000},
		},
		{
			"duplicates count once",
			EstimateRequest{Services: []string{"Cybersecurity", "Cybersecurity"}, Scale: ScaleStartup, Complexity: ComplexityBasic},
			Estimate{Amount: 4000, Low: 3200, High: 4800},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EstimatePrice(tc.req)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := EstimatePrice(EstimateRequest{Scale: ScaleStartup, Complexity: ComplexityBasic})
	require.ErrorIs(t, err, ErrIncomplete)
	_, err = EstimatePrice(EstimateRequest{Services: []string{"Blockchain"}, Scale: ScaleStartup, Complexity: ComplexityBasic})
	require.Error(t, err)
}

func TestSubmitEstimate(t *testing.T) {
	c := newController(t, &fakeResponder{})
	msg, err := c.SubmitEstimate(EstimateRequest{
		Services:   []string{"AI & Machine Learning"},
		Scale:      ScaleStartup,
		Complexity: ComplexityBasic,
	})
	require.NoError(t, err)
	require.Contains(t, msg.Text, "$3,200")
	require.Contains(t, msg.Text, "$4,800")
	require.True(t, msg.HasContext(model.TagPricing))

	_, err = c.SubmitEstimate(EstimateRequest{})
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestBooking_Validate(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	valid := Booking{
		Name:  "Dana",
		Email: "dana@example.com",
		Date:  time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		Slot:  "10:00",
		Topic: "Cloud Migration",
	}
	require.NoError(t, valid.Validate(now))

	tests := []struct {
		name  string
		edit  func(b *Booking)
		field string
	}{
		{"missing name", func(b *Booking) { b.Name = " " }, "name"},
		{"missing email", func(b *Booking) { b.Email = "" }, "email"},
		{"bad email", func(b *Booking) { b.Email = "dana-at-example" }, "email"},
		{"today", func(b *Booking) { b.Date = now }, "date"},
		{"no date", func(b *Booking) { b.Date = time.Time{} }, "date"},
		{"off-grid slot", func(b *Booking) { b.Slot = "12:30" }, "time"},
		{"unknown topic", func(b *Booking) { b.Topic = "Gardening" }, "topic"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := valid
			tc.edit(&b)
			err := b.Validate(now)
			require.ErrorIs(t, err, ErrIncomplete)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, tc.field, fe.Field)
		})
	}

	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), EarliestDate(now))
}

func TestSubmitBooking(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(Options{Store: storage.NewMemoryBackend(), Now: clock.Now})

	msg, err := c.SubmitBooking(Booking{
		Name:  "Dana",
		Email: "dana@example.com",
		Date:  time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Slot:  "14:00",
		Topic: "AI Solutions",
	})
	require.NoError(t, err)
	require.Contains(t, msg.Text, "Dana")
	require.Contains(t, msg.Text, "AI Solutions")
	require.Contains(t, msg.Text, "2025-03-12")
	require.Contains(t, msg.Text, "14:00")
	require.True(t, msg.HasContext(model.TagScheduling))
}

// =============================================================================
// LANGUAGE, CLEAR AND IMPORT TESTS
// =============================================================================

func TestSetLanguage_ReseedsWelcome(t *testing.T) {
	c := newController(t, &fakeResponder{})
	require.NoError(t, c.SetLanguage(model.LanguageFrench))

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, locale.For(model.LanguageFrench).Welcome, msgs[0].Text)
	require.Equal(t, model.LanguageFrench, c.Language())
}

// Once the user has written, switching language appends a welcome rather
// than reseeding, so the exchange so far is kept verbatim.
func TestSetLanguage_AppendsWhenHistoryExists(t *testing.T) {
	resp := &fakeResponder{reply: "ok"}
	c := newController(t, resp)
	exchange(t, c, "Tell me about your team")

	before := c.Messages()

	require.NoError(t, c.SetLanguage(model.LanguageArabic))
	msgs := c.Messages()
	require.Len(t, msgs, 4)
	require.Equal(t, locale.For(model.LanguageArabic).Welcome, msgs[3].Text)
	for i, m := range before {
		require.Equal(t, m.Text, msgs[i].Text)
	}

	exchange(t, c, "Tell me about your team")
	require.Equal(t, "ar", resp.requests[len(resp.requests)-1].Language)

	require.Error(t, c.SetLanguage("de"))
}

func TestClear(t *testing.T) {
	c := newController(t, &fakeResponder{reply: "ok"})
	root := c.Messages()[0]
	require.NoError(t, c.ReplyTo(root.ID))
	exchange(t, c, "Tell me about your team")
	c.ToggleThread(root.ID)

	c.Clear()
	require.Len(t, c.Messages(), 1)
	_, ok := c.ReplyingTo()
	require.False(t, ok)
}

func TestImport(t *testing.T) {
	c := newController(t, &fakeResponder{})
	msgs := []*model.Message{
		{ID: "a", Role: model.RoleAssistant, Text: "hi", Timestamp: time.Now()},
		{ID: "b", Role: model.RoleUser, Text: "reply", ParentID: "a", Timestamp: time.Now()},
	}
	require.NoError(t, c.Import(msgs))
	require.Len(t, c.Messages(), 2)
	parent, _ := c.Message("a")
	require.Equal(t, 1, parent.ReplyCount)

	bad := []*model.Message{{ID: "x", Role: model.RoleUser, Text: "orphan", ParentID: "nope"}}
	require.Error(t, c.Import(bad))
	require.Len(t, c.Messages(), 2, "failed import keeps the conversation")
}

func TestHistoryPersistsAcrossControllers(t *testing.T) {
	store := storage.NewMemoryBackend()
	c := New(Options{Store: store, Responder: &fakeResponder{reply: "ok"}})
	_, err := c.Exchange(context.Background(), "Tell me about your team")
	require.NoError(t, err)

	reopened := New(Options{Store: store})
	require.Len(t, reopened.Messages(), 3)
}

// unreadableStore fails every Load and counts saves.
type unreadableStore struct {
	saves int
}

func (s *unreadableStore) Load() ([]model.Record, error) {
	return nil, errors.New("database is locked")
}

func (s *unreadableStore) Save([]model.Record) error {
	s.saves++
	return nil
}

func TestNew_UnreadableHistoryIsNotOverwritten(t *testing.T) {
	store := &unreadableStore{}
	c := New(Options{Store: store, Responder: &fakeResponder{reply: "ok"}})

	require.Error(t, c.HistoryErr())
	require.Len(t, c.Messages(), 1)

	exchange(t, c, "Tell me about your team")
	require.Len(t, c.Messages(), 3)
	require.Equal(t, 0, store.saves)
}

// =============================================================================
// VOICE TESTS
// =============================================================================

// drain feeds every session event to the controller and returns the last
// non-nil pending reply.
func drain(t *testing.T, c *Controller, events <-chan voice.Event) *PendingReply {
	t.Helper()
	var pending *PendingReply
	for ev := range events {
		p, err := c.HandleVoiceEvent(ev)
		require.NoError(t, err)
		if p != nil {
			pending = p
		}
	}
	return pending
}

func TestVoice_TranscriptAutoSends(t *testing.T) {
	resp := &fakeResponder{reply: "Here is our team."}
	rec := &fakeRecognizer{capture: utterance("tell", "me", "about", "your", "team")}
	c := New(Options{Store: storage.NewMemoryBackend(), Responder: resp, Recognizer: rec, Language: model.LanguageFrench})
	require.True(t, c.VoiceAvailable())

	events, err := c.StartVoice(context.Background())
	require.NoError(t, err)
	require.True(t, c.Listening())
	require.Equal(t, []model.Language{model.LanguageFrench}, rec.langs)

	_, err = c.Send("typed while listening")
	require.ErrorIs(t, err, ErrListening)
	_, err = c.StartVoice(context.Background())
	require.ErrorIs(t, err, ErrListening)

	p := drain(t, c, events)
	require.False(t, c.Listening())
	require.NotNil(t, p)

	p.Run(context.Background())
	_, err = c.Resolve(p)
	require.NoError(t, err)

	msgs := c.Messages()
	require.Equal(t, "tell me about your team", msgs[1].Text)
	require.Equal(t, "Here is our team.", msgs[2].Text)
}

func TestVoice_ErrorIsTransient(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	rec := &fakeRecognizer{capture: failing(voice.CodeNotAllowed)}
	c := New(Options{Store: storage.NewMemoryBackend(), Recognizer: rec, Now: clock.Now})

	events, err := c.StartVoice(context.Background())
	require.NoError(t, err)
	require.Nil(t, drain(t, c, events))

	require.False(t, c.Listening())
	require.Equal(t, locale.For(model.LanguageEnglish).VoiceError("not-allowed"), c.VoiceError())
	require.Len(t, c.Messages(), 1, "voice errors do not touch the conversation")

	clock.Advance(VoiceErrorDisplay - time.Millisecond)
	require.NotEmpty(t, c.VoiceError())
	clock.Advance(time.Millisecond)
	require.Empty(t, c.VoiceError())
}

func TestVoice_StopSendsPartial(t *testing.T) {
	heard := make(chan struct{})
	capture := func(ctx context.Context, partial func(string)) (string, error) {
		partial("what does")
		close(heard)
		<-ctx.Done()
		return "", ctx.Err()
	}
	c := New(Options{
		Store:      storage.NewMemoryBackend(),
		Responder:  &fakeResponder{reply: "ok"},
		Recognizer: &fakeRecognizer{capture: capture},
	})

	events, err := c.StartVoice(context.Background())
	require.NoError(t, err)
	<-heard
	c.StopVoice()

	p := drain(t, c, events)
	require.NotNil(t, p)
	require.Equal(t, "what does", c.Messages()[1].Text)
	p.Run(context.Background())
	_, err = c.Resolve(p)
	require.NoError(t, err)
}

func TestVoice_Unavailable(t *testing.T) {
	c := newController(t, &fakeResponder{})
	_, err := c.StartVoice(context.Background())
	require.ErrorIs(t, err, ErrVoiceUnavailable)
	require.False(t, c.Listening())
}

func TestVoice_NotWhileAwaiting(t *testing.T) {
	rec := &fakeRecognizer{capture: utterance("hi")}
	c := New(Options{Store: storage.NewMemoryBackend(), Responder: &fakeResponder{reply: "ok"}, Recognizer: rec})

	p, err := c.Send("Tell me about your team")
	require.NoError(t, err)
	_, err = c.StartVoice(context.Background())
	require.ErrorIs(t, err, ErrAwaitingResponse)

	p.Run(context.Background())
	_, err = c.Resolve(p)
	require.NoError(t, err)
}

func TestVoice_StaleEventsIgnored(t *testing.T) {
	c := newController(t, &fakeResponder{})
	p, err := c.HandleVoiceEvent(voice.Event{Kind: voice.EventFinal, Transcript: "ghost"})
	require.NoError(t, err)
	require.Nil(t, p)
	require.Len(t, c.Messages(), 1)
}
