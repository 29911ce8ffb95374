// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - The chat command: the full-screen widget on a terminal, a
// line-oriented session otherwise.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/apexchat/internal/config"
	"github.com/jeranaias/apexchat/internal/export"
	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/ui/chat"
	"github.com/jeranaias/apexchat/internal/ui/styles"
	"github.com/jeranaias/apexchat/internal/widget"
)

// HandleChat runs the chat widget.
//
// Flags:
//
//	--plain            Line mode even on a terminal
//	--format FORMAT    Export format for the export key (default: markdown)
//	--output DIR       Export directory (default: .)
func HandleChat(args Args) error {
	parser, err := ParseFlags(args.Raw, chatFlags)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	plain := parser.Switch("plain") || !IsTTY() || !IsStdoutTTY()

	// Logs go to the log file only; they would corrupt either view.
	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	backend, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	ctrl := newController(cfg, backend, logger)
	logger.Info("CHAT_START",
		zap.String("history", backend.Location()),
		zap.String("language", ctrl.Language().String()),
		zap.Bool("plain", plain))

	format := parser.FlagOrDefault("format", "markdown")
	outDir := parser.FlagOrDefault("output", ".")

	if plain {
		s := &lineSession{
			ctrl:   ctrl,
			out:    os.Stdout,
			width:  GetTerminalWidth(),
			format: format,
			outDir: outDir,
			logger: logger,
		}
		return s.run(ctx)
	}

	m := chat.New(ctrl, chat.Options{
		Theme:        styles.NewTheme(),
		Context:      ctx,
		ExportDir:    outDir,
		ExportFormat: format,
		Logger:       logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return WrapError(err, "chat")
	}
	return nil
}

// =============================================================================
// LINE MODE
// =============================================================================

// lineSession is a chat over a plain line editor. Commands start with "/".
type lineSession struct {
	ctrl   *widget.Controller
	line   *liner.State
	out    io.Writer
	width  int
	format string
	outDir string
	logger *zap.Logger
}

const lineHelp = `Commands:
  /reply          Reply in the thread of the latest message
  /cancel         Stop replying in a thread
  /estimate       Open the price calculator
  /book           Book a consultation
  /lang CODE      Switch language (en, ar, fr)
  /export [FMT]   Export the conversation (text, markdown, html, json)
  /clear          Start over
  /quit           Leave
Tab completes suggested replies.`

func (s *lineSession) run(ctx context.Context) error {
	s.line = liner.NewLiner()
	defer s.line.Close()
	s.line.SetCtrlCAborts(true)
	s.line.SetCompleter(s.complete)

	histPath := ""
	if dir, err := config.ConfigDir(); err == nil {
		histPath = filepath.Join(dir, "chat_history")
		if f, err := os.Open(histPath); err == nil {
			s.line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" || config.EnsureConfigDir() != nil {
			return
		}
		if f, err := os.OpenFile(histPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			s.line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(s.out, TitleStyle.Render("Apex Labs AI Assistant"))
	printTranscript(s.out, s.ctrl.Messages(), s.width)
	if err := s.ctrl.HistoryErr(); err != nil {
		fmt.Fprintln(s.out, WarningStyle.Render("Saved history could not be read; this session will not be saved: "+err.Error()))
	}
	fmt.Fprintln(s.out, DimStyle.Render("Type /help for commands."))

	for ctx.Err() == nil {
		input, err := s.line.Prompt(s.prompt())
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return WrapError(err, "read input")
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			quit, err := s.command(ctx, input)
			if err != nil {
				fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}
		s.send(ctx, input)
	}
	return nil
}

func (s *lineSession) prompt() string {
	if parent, ok := s.ctrl.ReplyingTo(); ok {
		return fmt.Sprintf("%s %s > ", s.ctrl.Catalog().ReplyingTo, truncatePreview(parent.Text, 24))
	}
	return "> "
}

// complete offers the current quick replies that start with the typed text.
func (s *lineSession) complete(line string) []string {
	var out []string
	prefix := strings.ToLower(line)
	for _, q := range s.ctrl.QuickReplies() {
		if strings.HasPrefix(strings.ToLower(q), prefix) {
			out = append(out, q)
		}
	}
	return out
}

// send runs one exchange and prints the reply. Prompted forms are filled
// in right away.
func (s *lineSession) send(ctx context.Context, text string) {
	p, err := s.ctrl.Send(text)
	if err != nil {
		fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
		return
	}

	var msg *model.Message
	if p == nil {
		msgs := s.ctrl.Messages()
		msg = msgs[len(msgs)-1]
	} else {
		fmt.Fprintln(s.out, DimStyle.Render(s.ctrl.Catalog().Thinking))
		p.Run(ctx)
		msg, err = s.ctrl.Resolve(p)
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
			return
		}
	}
	printMessage(s.out, msg, s.width)

	switch msg.Attachment.(type) {
	case model.CalculatorPrompt:
		s.estimate()
	case model.SchedulerPrompt:
		s.book()
	}
	s.printSuggestions()
}

func (s *lineSession) printSuggestions() {
	if qr := s.ctrl.QuickReplies(); len(qr) > 0 {
		fmt.Fprintln(s.out, DimStyle.Render("Try: "+strings.Join(qr, " | ")))
	}
}

// command runs a slash command and reports whether the session should end.
func (s *lineSession) command(ctx context.Context, input string) (bool, error) {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/help", "/?":
		fmt.Fprintln(s.out, lineHelp)

	case "/clear":
		s.ctrl.Clear()
		printTranscript(s.out, s.ctrl.Messages(), s.width)

	case "/lang", "/language":
		if len(fields) < 2 {
			return false, ErrMissingArgument("language", "/lang fr")
		}
		lang, err := model.ParseLanguage(fields[1])
		if err != nil {
			return false, err
		}
		if err := s.ctrl.SetLanguage(lang); err != nil {
			return false, err
		}
		msgs := s.ctrl.Messages()
		printMessage(s.out, msgs[len(msgs)-1], s.width)

	case "/export":
		format := s.format
		if len(fields) > 1 {
			format = fields[1]
		}
		path, err := exportConversation(s.ctrl.Messages(), format, s.outDir, s.ctrl.Language())
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "%s %s\n", SuccessStyle.Render("Exported"), path)

	case "/reply":
		msgs := s.ctrl.TopLevel()
		if len(msgs) == 0 {
			return false, nil
		}
		if err := s.ctrl.ReplyTo(msgs[len(msgs)-1].ID); err != nil {
			return false, err
		}

	case "/cancel":
		s.ctrl.CancelReply()

	case "/estimate", "/calculator":
		s.estimate()

	case "/book", "/schedule":
		s.book()

	default:
		return false, NewValidationErrorWithExample("command", fields[0], "unknown command", "/help")
	}
	return false, nil
}

// ask prompts for one value. An aborted prompt returns ok=false.
func (s *lineSession) ask(prompt string) (string, bool) {
	v, err := s.line.Prompt(prompt)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// pick shows numbered options and returns the chosen one.
func (s *lineSession) pick(title string, options []string) (string, bool) {
	fmt.Fprintln(s.out, LabelStyle.UnsetWidth().Render(title))
	for i, o := range options {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, o)
	}
	for {
		v, ok := s.ask("  choice: ")
		if !ok {
			return "", false
		}
		n, err := strconv.Atoi(v)
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		fmt.Fprintln(s.out, WarningStyle.Render(fmt.Sprintf("  enter 1-%d", len(options))))
	}
}

// estimate walks the price calculator.
func (s *lineSession) estimate() {
	fmt.Fprintln(s.out, SectionStyle.Render("Price Calculator"))
	for i, svc := range widget.Services {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, svc)
	}

	var req widget.EstimateRequest
	for len(req.Services) == 0 {
		v, ok := s.ask("  services (e.g. 1,3): ")
		if !ok {
			return
		}
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(part)
			if err == nil && n >= 1 && n <= len(widget.Services) {
				req.Services = append(req.Services, widget.Services[n-1])
			}
		}
		if len(req.Services) == 0 {
			fmt.Fprintln(s.out, WarningStyle.Render("  select at least one service"))
		}
	}

	scales := make([]string, 0, len(widget.Scales()))
	for _, sc := range widget.Scales() {
		scales = append(scales, string(sc))
	}
	scale, ok := s.pick("Business scale", scales)
	if !ok {
		return
	}
	req.Scale = widget.Scale(scale)

	levels := make([]string, 0, len(widget.Complexities()))
	for _, c := range widget.Complexities() {
		levels = append(levels, string(c))
	}
	level, ok := s.pick("Project complexity", levels)
	if !ok {
		return
	}
	req.Complexity = widget.Complexity(level)

	msg, err := s.ctrl.SubmitEstimate(req)
	if err != nil {
		fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
		return
	}
	printMessage(s.out, msg, s.width)
}

// book walks the consultation scheduler, asking again for any field the
// booking rejects.
func (s *lineSession) book() {
	fmt.Fprintln(s.out, SectionStyle.Render("Book a Consultation"))
	now := time.Now()
	var b widget.Booking
	var ok bool

	if b.Name, ok = s.ask("  name: "); !ok {
		return
	}
	if b.Email, ok = s.ask("  email: "); !ok {
		return
	}
	earliest := widget.EarliestDate(now).Format("2006-01-02")
	for {
		v, ok := s.ask(fmt.Sprintf("  date [%s]: ", earliest))
		if !ok {
			return
		}
		if v == "" {
			v = earliest
		}
		d, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err == nil {
			b.Date = d
			break
		}
		fmt.Fprintln(s.out, WarningStyle.Render("  date must be YYYY-MM-DD"))
	}
	if b.Slot, ok = s.pick("Time", widget.TimeSlots); !ok {
		return
	}
	if b.Topic, ok = s.pick("Topic", widget.Topics); !ok {
		return
	}

	for {
		msg, err := s.ctrl.SubmitBooking(b)
		if err == nil {
			printMessage(s.out, msg, s.width)
			return
		}
		var fe *widget.FieldError
		if !errors.As(err, &fe) {
			fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
			return
		}
		fmt.Fprintln(s.out, WarningStyle.Render("  "+fe.Error()))
		v, ok := s.ask(fmt.Sprintf("  %s: ", fe.Field))
		if !ok {
			return
		}
		switch fe.Field {
		case "name":
			b.Name = v
		case "email":
			b.Email = v
		case "date":
			if d, err := time.ParseInLocation("2006-01-02", v, now.Location()); err == nil {
				b.Date = d
			}
		default:
			fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
			return
		}
	}
}

// exportConversation writes msgs in format to dir and returns the path.
func exportConversation(msgs []*model.Message, format, dir string, lang model.Language) (string, error) {
	opts := export.DefaultOptions()
	opts.OutputDir = dir
	opts.Language = lang
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return "", ErrUnsupportedFormat(format, export.Formats())
	}
	path, err := export.ExportToFile(msgs, exporter, opts)
	if err != nil {
		return "", WrapError(err, "export")
	}
	return path, nil
}

// truncatePreview shortens text to n runes for prompts.
func truncatePreview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
