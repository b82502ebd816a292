package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/igolaizola/musikbot/pkg/elevenlabs"
	"github.com/igolaizola/musikbot/pkg/menu"
	"github.com/igolaizola/musikbot/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	welcomeText = "👋 Welcome to the AI Music Generator Bot!\n\n" +
		"With me you can create **custom songs** by choosing:\n" +
		"🎼 Genre\n🎭 Mood\n⏱ Tempo\n🎹 Instrument\n🌐 Language\n📅 Era\n📝 Description\n\n" +
		"Let's start!\n\n👉 First, pick a *genre*: "
	descriptionText = "📝 Now, please type a short description of your song idea.\n\n" +
		"For example: *'A calm evening melody with soft piano and gentle rain sounds.'*"
	generatingText = "🎶 Generating your song:\n\n%s"
	cancelText     = "❌ Music generation cancelled."
	comingSoonText = "⚡ This Feature is Coming Soon!"
	audioTitle     = "🎵 Your AI Generated Song"
	tooLongText    = "📝 That description is too long, please keep it under %d characters."

	audioExt = ".mp3"

	// MaxDescription keeps the summary within a single Telegram message.
	MaxDescription = 1000
)

// Message is a prompt shown to the user with optional buttons.
type Message struct {
	Text     string
	Markdown bool
	Keyboard [][]menu.Button
}

// Renderer shows messages to the user.
type Renderer interface {
	// Send shows a new message and returns its id.
	Send(ctx context.Context, chatID int64, msg Message) (int, error)
	// Edit replaces a message previously shown.
	Edit(ctx context.Context, chatID int64, messageID int, msg Message) error
	SendAudio(ctx context.Context, chatID int64, path, title string) error
	SendText(ctx context.Context, chatID int64, text string) error
}

type Generator interface {
	Generate(ctx context.Context, prompt string) elevenlabs.Result
}

// Record describes a confirmed generation.
type Record struct {
	ChatID  int64
	Answers Answers
	Prompt  string
	Result  elevenlabs.Result
	Ready   bool
	Archive string
	Elapsed time.Duration
}

// History stores confirmed generations.
type History interface {
	Save(ctx context.Context, r *Record) error
}

// Archive keeps a copy of delivered audio and returns its reference.
type Archive interface {
	Store(ctx context.Context, path string) (string, error)
}

type Config struct {
	Menus     *menu.Set
	Renderer  Renderer
	Generator Generator
	History   History
	Archive   Archive
}

type handler func(ctx context.Context, s *Session, ev Event, next State) (bool, error)

type transition struct {
	state State
	kind  EventKind
}

type action struct {
	next State
	do   handler
}

// Controller drives the questionnaire. It holds no per-session data, callers
// must not handle two events of the same session concurrently.
type Controller struct {
	menus     *menu.Set
	renderer  Renderer
	generator Generator
	history   History
	archive   Archive
	table     map[transition]action

	// Generated audio is written to a single file, it must not be replaced
	// until it has been delivered and archived.
	deliver sync.Mutex
}

// New creates a controller and validates that every state has its menu.
func New(cfg *Config) (*Controller, error) {
	if cfg.Menus == nil || cfg.Renderer == nil || cfg.Generator == nil {
		return nil, errors.New("conversation: menus, renderer and generator are required")
	}
	if err := cfg.Menus.Validate(MenuNames()...); err != nil {
		return nil, fmt.Errorf("conversation: %w", err)
	}
	c := &Controller{
		menus:     cfg.Menus,
		renderer:  cfg.Renderer,
		generator: cfg.Generator,
		history:   cfg.History,
		archive:   cfg.Archive,
	}
	c.table = c.transitions()
	return c, nil
}

func (c *Controller) transitions() map[transition]action {
	t := map[transition]action{}
	for s := Idle; s <= Terminated; s++ {
		t[transition{s, EventStart}] = action{Genre, c.start}
		if s.Active() {
			t[transition{s, EventCancel}] = action{Terminated, c.cancel}
		}
	}
	for _, s := range []State{Genre, Mood, Tempo, Instrument, Language} {
		t[transition{s, EventSelect}] = action{s.Next(), c.applySelection}
	}
	t[transition{Era, EventSelect}] = action{Description, c.applyEra}
	t[transition{Description, EventText}] = action{Confirm, c.applyDescription}
	t[transition{Confirm, EventConfirm}] = action{Terminated, c.confirm}
	return t
}

// Handle applies an event to the session. Events that don't fit the current
// state are dropped and leave the session untouched.
func (c *Controller) Handle(ctx context.Context, s *Session, ev Event) error {
	l := logger(s)
	a, ok := c.table[transition{s.State, ev.Kind}]
	if !ok {
		l.Debug().Stringer("event", ev.Kind).Msg("conversation: event dropped")
		return nil
	}
	prev := s.State
	applied, err := a.do(ctx, s, ev, a.next)
	if !applied {
		l.Debug().Stringer("event", ev.Kind).Msg("conversation: event ignored")
		if err != nil {
			return fmt.Errorf("conversation: %s in %s: %w", ev.Kind, prev, err)
		}
		return nil
	}
	s.State = a.next
	if a.next == Terminated {
		s.Answers = Answers{}
	}
	l.Debug().Stringer("from", prev).Stringer("to", s.State).Msg("conversation: transition")
	if err != nil {
		return fmt.Errorf("conversation: %s in %s: %w", ev.Kind, prev, err)
	}
	return nil
}

func (c *Controller) menu(s State) Message {
	return Message{
		Text:     c.menus.Message(s.String()),
		Keyboard: c.menus.Keyboard(s.String()),
	}
}

func (c *Controller) start(ctx context.Context, s *Session, ev Event, next State) (bool, error) {
	s.reset(next)
	metrics.ConversationStarted()
	msg := c.menu(next)
	if ev.Welcome {
		msg.Text = welcomeText
		msg.Markdown = true
	}
	id, err := c.renderer.Send(ctx, s.ChatID, msg)
	if err != nil {
		return true, err
	}
	s.MessageID = id
	return true, nil
}

func (c *Controller) store(s *Session, ev Event) bool {
	if ev.State != s.State || !c.menus.IsOption(s.State.String(), ev.Value) {
		return false
	}
	s.Answers[s.State.Field()] = ev.Value
	if ev.MessageID != 0 {
		s.MessageID = ev.MessageID
	}
	return true
}

func (c *Controller) applySelection(ctx context.Context, s *Session, ev Event, next State) (bool, error) {
	if !c.store(s, ev) {
		return false, nil
	}
	return true, c.renderer.Edit(ctx, s.ChatID, s.MessageID, c.menu(next))
}

func (c *Controller) applyEra(ctx context.Context, s *Session, ev Event, _ State) (bool, error) {
	if !c.store(s, ev) {
		return false, nil
	}
	return true, c.renderer.Edit(ctx, s.ChatID, s.MessageID, Message{
		Text:     descriptionText,
		Markdown: true,
	})
}

func (c *Controller) applyDescription(ctx context.Context, s *Session, ev Event, next State) (bool, error) {
	if strings.TrimSpace(ev.Text) == "" {
		return false, nil
	}
	if utf8.RuneCountInString(ev.Text) > MaxDescription {
		return false, c.renderer.SendText(ctx, s.ChatID, fmt.Sprintf(tooLongText, MaxDescription))
	}
	s.Answers[Description.Field()] = ev.Text
	msg := c.menu(next)
	msg.Text = s.Answers.summary() + "\n" + msg.Text
	msg.Markdown = true
	id, err := c.renderer.Send(ctx, s.ChatID, msg)
	if err != nil {
		// Without the summary there is nothing to confirm
		delete(s.Answers, Description.Field())
		return false, err
	}
	s.MessageID = id
	return true, nil
}

func (c *Controller) confirm(ctx context.Context, s *Session, ev Event, _ State) (bool, error) {
	l := logger(s)
	if ev.MessageID != 0 {
		s.MessageID = ev.MessageID
	}
	metrics.ConversationConfirmed()
	prompt := s.Answers.Prompt()
	if err := c.renderer.Edit(ctx, s.ChatID, s.MessageID, Message{Text: fmt.Sprintf(generatingText, prompt)}); err != nil {
		l.Warn().Err(err).Msg("conversation: couldn't show generating message")
	}

	c.deliver.Lock()
	defer c.deliver.Unlock()

	start := time.Now()
	res := c.generator.Generate(ctx, prompt)
	rec := &Record{
		ChatID:  s.ChatID,
		Answers: s.Answers,
		Prompt:  prompt,
		Result:  res,
		Ready:   res.Path != "" && strings.HasSuffix(res.Path, audioExt),
		Elapsed: time.Since(start),
	}
	metrics.ObserveGeneration(rec.Ready, rec.Elapsed)

	var err error
	if rec.Ready {
		l.Info().Str("path", res.Path).Dur("elapsed", rec.Elapsed).Msg("conversation: song generated")
		err = c.renderer.SendAudio(ctx, s.ChatID, res.Path, audioTitle)
		if c.archive != nil {
			ref, aErr := c.archive.Store(ctx, res.Path)
			if aErr != nil {
				l.Error().Err(aErr).Msg("conversation: couldn't archive song")
			}
			rec.Archive = ref
		}
	} else {
		// The diagnostic is only logged, users get a generic answer.
		l.Warn().Str("diagnostic", res.Message).Msg("conversation: song not generated")
		err = c.renderer.SendText(ctx, s.ChatID, comingSoonText)
	}

	if c.history != nil {
		if hErr := c.history.Save(ctx, rec); hErr != nil {
			l.Error().Err(hErr).Msg("conversation: couldn't save history")
		}
	}
	return true, err
}

func (c *Controller) cancel(ctx context.Context, s *Session, ev Event, _ State) (bool, error) {
	metrics.ConversationCancelled(s.State.String())
	if ev.MessageID != 0 {
		return true, c.renderer.Edit(ctx, s.ChatID, ev.MessageID, Message{Text: cancelText})
	}
	return true, c.renderer.SendText(ctx, s.ChatID, cancelText)
}

func logger(s *Session) zerolog.Logger {
	return log.With().
		Str("component", "conversation").
		Int64("chat", s.ChatID).
		Stringer("state", s.State).
		Logger()
}
