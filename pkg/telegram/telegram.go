package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/igolaizola/musikbot/pkg/conversation"
	"github.com/igolaizola/musikbot/pkg/menu"
	"github.com/igolaizola/musikbot/pkg/sound"
	"github.com/rs/zerolog/log"
)

type api interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	AnswerCallbackQuery(config tgbot.CallbackConfig) (tgbot.APIResponse, error)
}

// Handler applies events to sessions.
type Handler interface {
	Handle(ctx context.Context, s *conversation.Session, ev conversation.Event) error
}

// Bot receives Telegram updates and renders conversation messages.
type Bot struct {
	bot   *tgbot.BotAPI
	api   api
	debug bool
}

func New(token string, debug bool) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram: token is empty")
	}
	bot, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: couldn't create bot: %w", err)
	}
	bot.Debug = debug
	log.Info().Str("component", "telegram").Str("user", bot.Self.UserName).Msg("telegram: authorized")
	return &Bot{
		bot:   bot,
		api:   bot,
		debug: debug,
	}, nil
}

// Run polls updates until the context is cancelled and waits for the events
// being handled to finish.
func (b *Bot) Run(ctx context.Context, h Handler) error {
	u := tgbot.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.bot.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("telegram: couldn't get updates: %w", err)
	}
	d := newDispatcher(func(ctx context.Context, s *conversation.Session, ev conversation.Event) {
		if err := h.Handle(ctx, s, ev); err != nil {
			log.Error().Err(err).Str("component", "telegram").Int64("chat", s.ChatID).Msg("telegram: couldn't handle event")
		}
	})
	defer d.wait()
	defer b.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "telegram").Int("active", d.active()).Msg("telegram: stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.receive(ctx, d, update)
		}
	}
}

func (b *Bot) receive(ctx context.Context, d *dispatcher, update tgbot.Update) {
	if q := update.CallbackQuery; q != nil {
		// Stop the client spinner whatever the payload is
		if _, err := b.api.AnswerCallbackQuery(tgbot.NewCallback(q.ID, "")); err != nil {
			log.Warn().Err(err).Str("component", "telegram").Msg("telegram: couldn't answer callback")
		}
	}
	chatID, ev, ok := route(update)
	if !ok {
		return
	}
	d.dispatch(ctx, chatID, ev)
}

func (b *Bot) Send(ctx context.Context, chatID int64, msg conversation.Message) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cfg := tgbot.NewMessage(chatID, msg.Text)
	if msg.Markdown {
		cfg.ParseMode = tgbot.ModeMarkdown
	}
	if len(msg.Keyboard) > 0 {
		cfg.ReplyMarkup = keyboard(msg.Keyboard)
	}
	sent, err := b.api.Send(cfg)
	if err != nil {
		return 0, fmt.Errorf("telegram: couldn't send message: %w", err)
	}
	return sent.MessageID, nil
}

func (b *Bot) Edit(ctx context.Context, chatID int64, messageID int, msg conversation.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := tgbot.NewEditMessageText(chatID, messageID, msg.Text)
	if msg.Markdown {
		cfg.ParseMode = tgbot.ModeMarkdown
	}
	if len(msg.Keyboard) > 0 {
		markup := keyboard(msg.Keyboard)
		cfg.ReplyMarkup = &markup
	}
	if _, err := b.api.Send(cfg); err != nil {
		return fmt.Errorf("telegram: couldn't edit message %d: %w", messageID, err)
	}
	return nil
}

func (b *Bot) SendAudio(ctx context.Context, chatID int64, path, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := tgbot.NewAudioUpload(chatID, path)
	cfg.Title = title
	if d, err := sound.Duration(path); err != nil {
		log.Debug().Err(err).Str("component", "telegram").Msg("telegram: unknown audio duration")
	} else {
		cfg.Duration = int(d.Seconds())
	}
	if _, err := b.api.Send(cfg); err != nil {
		return fmt.Errorf("telegram: couldn't send audio %s: %w", path, err)
	}
	return nil
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.Send(ctx, chatID, conversation.Message{Text: text})
	return err
}

func keyboard(rows [][]menu.Button) tgbot.InlineKeyboardMarkup {
	var markup [][]tgbot.InlineKeyboardButton
	for _, row := range rows {
		var buttons []tgbot.InlineKeyboardButton
		for _, b := range row {
			buttons = append(buttons, tgbot.NewInlineKeyboardButtonData(b.Label, b.Payload))
		}
		markup = append(markup, tgbot.NewInlineKeyboardRow(buttons...))
	}
	return tgbot.NewInlineKeyboardMarkup(markup...)
}
