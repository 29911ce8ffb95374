// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/apexchat/internal/cloud"
	"github.com/jeranaias/apexchat/internal/config"
	"github.com/jeranaias/apexchat/internal/export"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/proxy"
	"github.com/jeranaias/apexchat/internal/storage"
	"github.com/jeranaias/apexchat/internal/widget"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		fs       FlagSet
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "subcommand only",
			fs:      historyFlags,
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "value flag with space",
			fs:      historyFlags,
			args:    []string{"export", "--format", "html"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.Flag("format"); got != "html" {
					t.Errorf("Flag(format) = %q, want %q", got, "html")
				}
				if got := p.FlagOrDefault("output", "."); got != "." {
					t.Errorf("FlagOrDefault(output) = %q, want %q", got, ".")
				}
			},
		},
		{
			name:    "value flag with equals",
			fs:      chatFlags,
			args:    []string{"--output=exports", "--plain"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.Flag("output"); got != "exports" {
					t.Errorf("Flag(output) = %q, want %q", got, "exports")
				}
				if !p.Switch("plain") {
					t.Error("Switch(plain) = false, want true")
				}
			},
		},
		{
			name:    "switch before question keeps every word",
			fs:      askFlags,
			args:    []string{"--save", "what", "do", "you", "build"},
			wantSub: "what",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.Switch("save") {
					t.Error("Switch(save) = false, want true")
				}
				if got := p.Text(0); got != "what do you build" {
					t.Errorf("Text(0) = %q, want %q", got, "what do you build")
				}
			},
		},
		{
			name:    "explicit false switch",
			fs:      askFlags,
			args:    []string{"--save=no", "hello"},
			wantSub: "hello",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Switch("save") {
					t.Error("Switch(save) = true, want false")
				}
			},
		},
		{
			name:    "double dash ends flags",
			fs:      askFlags,
			args:    []string{"--", "--save", "me"},
			wantSub: "--save",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Switch("save") {
					t.Error("Switch(save) = true after --, want false")
				}
				if got := p.Text(1); got != "me" {
					t.Errorf("Text(1) = %q, want %q", got, "me")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseFlags(tt.args, tt.fs)
			require.NoError(t, err)
			if got := p.Subcommand(); got != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", got, tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name        string
		fs          FlagSet
		args        []string
		wantValue   string
		wantExample string
	}{
		{"misspelled flag", historyFlags, []string{"export", "--fromat", "json"}, "--fromat", "--format"},
		{"flag of another command", askFlags, []string{"--plain", "hi"}, "--plain", ""},
		{"close switch", chatFlags, []string{"--plian"}, "--plian", "--plain"},
		{"missing value", serveFlags, []string{"--addr"}, "", "apexchat serve --addr VALUE"},
		{"bad boolean", askFlags, []string{"--save=maybe"}, "maybe", "--save=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args, tt.fs)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			if ve.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", ve.Value, tt.wantValue)
			}
			if ve.Example != tt.wantExample {
				t.Errorf("Example = %q, want %q", ve.Example, tt.wantExample)
			}
			require.Equal(t, ExitUsageError, GetExitCode(err))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{" Y ", true, false},
		{"off", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := ParseBoolString(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseBoolString(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		want    Args
	}{
		{"no args opens the widget", nil, CmdChat, Args{}},
		{"chat plain", []string{"--lang", "fr", "chat", "--plain"}, CmdChat,
			Args{Language: "fr", Raw: []string{"--plain"}}},
		{"serve addr", []string{"serve", "--addr", ":9000"}, CmdServe,
			Args{Raw: []string{"--addr", ":9000"}}},
		{"ask joins words", []string{"ask", "what", "do", "you", "build"}, CmdAsk,
			Args{Raw: []string{"what", "do", "you", "build"}}},
		{"model flag with equals", []string{"--model=gemini-x", "a", "hi"}, CmdAsk,
			Args{Model: "gemini-x", Raw: []string{"hi"}}},
		{"json version", []string{"--json", "version"}, CmdVersion, Args{JSON: true, Raw: []string{}}},
		{"version flag", []string{"--version"}, CmdVersion, Args{Raw: []string{}}},
		{"config set", []string{"config", "set", "widget.language", "fr"}, CmdConfig,
			Args{Subcommand: "set", ConfigKey: "widget.language", ConfigVal: "fr",
				Raw: []string{"set", "widget.language", "fr"}}},
		{"history export", []string{"-q", "history", "export", "--format", "json"}, CmdHistory,
			Args{Quiet: true, Subcommand: "export", Raw: []string{"export", "--format", "json"}}},
		{"help", []string{"help"}, CmdHelp, Args{Raw: []string{}}},
		{"unknown", []string{"bogus"}, CmdUnknown, Args{Unknown: "bogus", Raw: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("command = %v, want %v", cmd, tt.wantCmd)
			}
			if diff := cmp.Diff(tt.want, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleUnknown_Suggests(t *testing.T) {
	err := HandleUnknown(Args{Unknown: "histroy"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "apexchat history", ve.Example)
	require.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleUnknown(Args{Unknown: "xyzzy"})
	require.ErrorAs(t, err, &ve)
	require.Empty(t, ve.Example)
}

func TestSuggestFlag(t *testing.T) {
	tests := []struct {
		input    string
		accepted []string
		want     string
	}{
		{"fromat", historyFlags.names(), "format"},
		{"ouput", chatFlags.names(), "output"},
		{"confrim", historyFlags.names(), "confirm"},
		{"sav", askFlags.names(), "save"},
		{"plain", askFlags.names(), ""},
		{"save", askFlags.names(), ""},
	}
	for _, tt := range tests {
		if got := SuggestFlag(tt.input, tt.accepted); got != tt.want {
			t.Errorf("SuggestFlag(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"histroy", "history"},
		{"chta", "chat"},
		{"confg", "config"},
		{"serv", "serve"},
		{"chat", ""},
		{"x", ""},
		{"xyzzy", ""},
	}
	for _, tt := range tests {
		if got := SuggestCommand(tt.input); got != tt.want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// =============================================================================
// EXIT CODE TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("format", "pdf", "unsupported"), ExitUsageError},
		{"incomplete form", fmt.Errorf("submit: %w", widget.ErrIncomplete), ExitUsageError},
		{"config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "server.addr", Message: "bad"}}), ExitConfigError},
		{"no api key", fmt.Errorf("generate: %w", cloud.ErrNotConfigured), ExitAuthError},
		{"no history", model.ErrNoHistory, ExitNotFoundError},
		{"not found", NewNotFoundError("file", "x.json"), ExitNotFoundError},
		{"deadline", fmt.Errorf("ask: %w", context.DeadlineExceeded), ExitTimeoutError},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ExitNetworkError},
		{"flattened dial", fmt.Errorf("%w: dial tcp 127.0.0.1:8787: connection refused", proxy.ErrUpstream), ExitNetworkError},
		{"upstream status", fmt.Errorf("%w: status 502", proxy.ErrUpstream), ExitUpstreamError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationErrorWithExample("language", "de", "unsupported", "--lang fr")
	require.Equal(t, "invalid language: unsupported (got: de)\nExample: --lang fr", err.Error())
}

// =============================================================================
// CONFIRMATION AND DISPLAY TESTS
// =============================================================================

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
		{"y", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := promptConfirm(strings.NewReader(tt.in), &out, "delete it")
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("promptConfirm(%q) = %v, want %v", tt.in, got, tt.want)
		}
		require.Contains(t, out.String(), "delete it? [y/N]")
	}
}

func TestRequireConfirmation_JSONNeedsFlag(t *testing.T) {
	ok, err := RequireConfirmation("clear", ConfirmationOptions{JSONMode: true})
	require.ErrorIs(t, err, ErrConfirmationRequired)
	require.False(t, ok)

	ok, err = RequireConfirmation("clear", ConfirmationOptions{ConfirmFlag: true, JSONMode: true})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		key  string
		v    interface{}
		want string
	}{
		{"gemini.api_key", "AIza-secret", "[REDACTED]"},
		{"maps.api_key", "", "(not set)"},
		{"widget.proxy_url", "", "(not set)"},
		{"server.allowed_origins", []string{"a", "b"}, "a, b"},
		{"server.rate_burst", 10, "10"},
		{"widget.language", "fr", "fr"},
	}
	for _, tt := range tests {
		if got := displayValue(tt.key, tt.v); got != tt.want {
			t.Errorf("displayValue(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := WrapText("one two three four five six", 14)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 12 {
			t.Errorf("line %q wider than 12", line)
		}
	}
	require.Equal(t, "keep\nbreaks", WrapText("keep\nbreaks", 40))
}

func TestTruncatePreview(t *testing.T) {
	require.Equal(t, "short", truncatePreview("short", 10))
	require.Equal(t, "a b c...", truncatePreview("a  b\nc d e", 5))
}

// =============================================================================
// TRANSCRIPT AND LINE MODE TESTS
// =============================================================================

type fakeResponder struct {
	reply    string
	err      error
	deadline bool
}

func (f *fakeResponder) Respond(ctx context.Context, _ proxy.Request) (string, error) {
	if _, ok := ctx.Deadline(); ok {
		f.deadline = true
	}
	return f.reply, f.err
}

func newTestController(t *testing.T, r widget.Responder) *widget.Controller {
	t.Helper()
	return widget.New(widget.Options{
		Store:     storage.NewMemoryBackend(),
		Responder: r,
		Now:       func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
	})
}

func TestPrintTranscript_ThreadsAndLinks(t *testing.T) {
	parent := model.NewAssistantMessage("See " + `<link href="/services">our services page</link>`)
	reply := model.NewUserMessage("Tell me more").WithParent(parent.ID)
	parent.ReplyCount = 1
	card := model.NewAssistantMessage("Here we are").WithAttachment(model.LocationCard{Address: "1 Main St"})

	var out bytes.Buffer
	printTranscript(&out, []*model.Message{parent, reply, card}, 80)
	got := out.String()

	require.Contains(t, got, "our services page (/services)")
	require.NotContains(t, got, "<link")
	require.Contains(t, got, "    Tell me more")
	require.Contains(t, got, "1 reply")
	require.Contains(t, got, "Apex Labs Office")
	require.Contains(t, got, "1 Main St")
	if strings.Index(got, "Tell me more") > strings.Index(got, "Here we are") {
		t.Error("reply should print under its parent")
	}
}

func TestLineSession_Send(t *testing.T) {
	resp := &fakeResponder{reply: "We build cloud platforms."}
	ctrl := newTestController(t, resp)
	var out bytes.Buffer
	s := &lineSession{ctrl: ctrl, out: &out, width: 80}

	s.send(context.Background(), "What services do you offer?")

	require.Contains(t, out.String(), "We build cloud platforms.")
	if resp.deadline {
		t.Error("proxy call ctx has a deadline, want none")
	}
	msgs := ctrl.Messages()
	require.Len(t, msgs, 3)
	require.True(t, msgs[1].IsUser())
}

func TestLineSession_Commands(t *testing.T) {
	ctrl := newTestController(t, &fakeResponder{reply: "ok"})
	var out bytes.Buffer
	dir := t.TempDir()
	s := &lineSession{ctrl: ctrl, out: &out, width: 80, format: "markdown", outDir: dir}
	ctx := context.Background()

	quit, err := s.command(ctx, "/lang fr")
	require.NoError(t, err)
	require.False(t, quit)
	require.Equal(t, model.LanguageFrench, ctrl.Language())

	_, err = s.command(ctx, "/lang")
	require.Error(t, err)

	_, err = s.command(ctx, "/reply")
	require.NoError(t, err)
	_, replying := ctrl.ReplyingTo()
	require.True(t, replying)
	require.Contains(t, s.prompt(), ctrl.Catalog().ReplyingTo)

	_, err = s.command(ctx, "/cancel")
	require.NoError(t, err)
	require.Equal(t, "> ", s.prompt())

	_, err = s.command(ctx, "/export json")
	require.NoError(t, err)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	imported, err := export.Import(data)
	require.NoError(t, err)
	require.Len(t, imported, len(ctrl.Messages()))

	_, err = s.command(ctx, "/export pdf")
	require.Equal(t, ExitUsageError, GetExitCode(err))

	_, err = s.command(ctx, "/bogus")
	require.Error(t, err)

	quit, err = s.command(ctx, "/quit")
	require.NoError(t, err)
	require.True(t, quit)
}

func TestLineSession_Complete(t *testing.T) {
	ctrl := newTestController(t, &fakeResponder{reply: "ok"})
	s := &lineSession{ctrl: ctrl}

	all := s.complete("")
	require.Equal(t, ctrl.QuickReplies(), all)
	require.NotEmpty(t, all)

	first := all[0]
	got := s.complete(strings.ToLower(first[:3]))
	require.Contains(t, got, first)
	require.Empty(t, s.complete("zzzz-no-match"))
}
