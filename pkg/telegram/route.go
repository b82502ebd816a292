package telegram

import (
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/igolaizola/musikbot/pkg/conversation"
	"github.com/rs/zerolog/log"
)

// route converts an update into a conversation event. Updates that can't be
// mapped to an event are reported as not ok.
func route(update tgbot.Update) (int64, conversation.Event, bool) {
	if q := update.CallbackQuery; q != nil {
		if q.Message == nil || q.Message.Chat == nil {
			return 0, conversation.Event{}, false
		}
		ev, err := conversation.ParsePayload(q.Data)
		if err != nil {
			log.Debug().Err(err).Str("component", "telegram").Msg("telegram: payload dropped")
			return 0, conversation.Event{}, false
		}
		ev.MessageID = q.Message.MessageID
		return q.Message.Chat.ID, ev, true
	}

	m := update.Message
	if m == nil || m.Chat == nil {
		return 0, conversation.Event{}, false
	}
	if m.IsCommand() {
		switch m.Command() {
		case "start":
			return m.Chat.ID, conversation.Start(true), true
		case "music":
			return m.Chat.ID, conversation.Start(false), true
		case "cancel":
			return m.Chat.ID, conversation.Cancel(), true
		default:
			return 0, conversation.Event{}, false
		}
	}
	if strings.TrimSpace(m.Text) == "" {
		return 0, conversation.Event{}, false
	}
	return m.Chat.ID, conversation.Text(m.Text), true
}
