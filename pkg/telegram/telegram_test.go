package telegram

import (
	"context"
	"errors"
	"testing"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/igolaizola/musikbot/pkg/conversation"
	"github.com/igolaizola/musikbot/pkg/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	sent     []tgbot.Chattable
	answered []string
	err      error
}

func (f *fakeAPI) Send(c tgbot.Chattable) (tgbot.Message, error) {
	f.sent = append(f.sent, c)
	return tgbot.Message{MessageID: len(f.sent)}, f.err
}

func (f *fakeAPI) AnswerCallbackQuery(cfg tgbot.CallbackConfig) (tgbot.APIResponse, error) {
	f.answered = append(f.answered, cfg.CallbackQueryID)
	return tgbot.APIResponse{Ok: true}, nil
}

var buttons = [][]menu.Button{
	{{Label: "Pop", Payload: "GENRE:Pop"}, {Label: "Rock", Payload: "GENRE:Rock"}},
	{{Label: "❌ Cancel", Payload: "CANCEL"}},
}

func TestSend(t *testing.T) {
	fake := &fakeAPI{}
	b := &Bot{api: fake}

	id, err := b.Send(context.Background(), 7, conversation.Message{Text: "pick", Markdown: true, Keyboard: buttons})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	cfg, ok := fake.sent[0].(tgbot.MessageConfig)
	require.True(t, ok)
	assert.EqualValues(t, 7, cfg.ChatID)
	assert.Equal(t, "pick", cfg.Text)
	assert.Equal(t, tgbot.ModeMarkdown, cfg.ParseMode)
	markup, ok := cfg.ReplyMarkup.(tgbot.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Rock", markup.InlineKeyboard[0][1].Text)
	assert.Equal(t, "GENRE:Rock", *markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "CANCEL", *markup.InlineKeyboard[1][0].CallbackData)

	require.NoError(t, b.SendText(context.Background(), 7, "bye"))
	text, ok := fake.sent[1].(tgbot.MessageConfig)
	require.True(t, ok)
	assert.Empty(t, text.ParseMode)
	assert.Nil(t, text.ReplyMarkup)
}

func TestEdit(t *testing.T) {
	fake := &fakeAPI{}
	b := &Bot{api: fake}

	require.NoError(t, b.Edit(context.Background(), 7, 3, conversation.Message{Text: "mood?", Keyboard: buttons}))
	cfg, ok := fake.sent[0].(tgbot.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 3, cfg.MessageID)
	assert.Equal(t, "mood?", cfg.Text)
	require.NotNil(t, cfg.ReplyMarkup)
	assert.Len(t, cfg.ReplyMarkup.InlineKeyboard, 2)

	require.NoError(t, b.Edit(context.Background(), 7, 3, conversation.Message{Text: "describe"}))
	cfg = fake.sent[1].(tgbot.EditMessageTextConfig)
	assert.Nil(t, cfg.ReplyMarkup)
}

func TestSendAudio(t *testing.T) {
	fake := &fakeAPI{}
	b := &Bot{api: fake}

	require.NoError(t, b.SendAudio(context.Background(), 7, "generated_music.mp3", "song"))
	cfg, ok := fake.sent[0].(tgbot.AudioConfig)
	require.True(t, ok)
	assert.Equal(t, "song", cfg.Title)
	assert.Equal(t, "generated_music.mp3", cfg.File)
}

func TestErrors(t *testing.T) {
	fake := &fakeAPI{err: errors.New("boom")}
	b := &Bot{api: fake}

	_, err := b.Send(context.Background(), 7, conversation.Message{Text: "x"})
	assert.ErrorContains(t, err, "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = b.Edit(ctx, 7, 1, conversation.Message{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fake.sent, 1)
}

func TestReceiveAnswersCallbacks(t *testing.T) {
	fake := &fakeAPI{}
	b := &Bot{api: fake}
	var got []conversation.Event
	d := newDispatcher(func(ctx context.Context, s *conversation.Session, ev conversation.Event) {
		got = append(got, ev)
	})

	ctx := context.Background()
	b.receive(ctx, d, tgbot.Update{CallbackQuery: &tgbot.CallbackQuery{
		ID:      "q1",
		Data:    "GENRE:Pop",
		Message: &tgbot.Message{MessageID: 3, Chat: &tgbot.Chat{ID: 7}},
	}})
	b.receive(ctx, d, tgbot.Update{CallbackQuery: &tgbot.CallbackQuery{
		ID:      "q2",
		Data:    "garbage",
		Message: &tgbot.Message{MessageID: 3, Chat: &tgbot.Chat{ID: 7}},
	}})
	d.wait()

	assert.Equal(t, []string{"q1", "q2"}, fake.answered)
	require.Len(t, got, 1)
	assert.Equal(t, "Pop", got[0].Value)
}
