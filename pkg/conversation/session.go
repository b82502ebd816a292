package conversation

import (
	"fmt"
	"strings"
)

// Answers maps a field name (genre, mood, ...) to the user's choice.
type Answers map[string]string

// Session is the conversation of a single chat.
type Session struct {
	ChatID    int64
	State     State
	Answers   Answers
	MessageID int
}

func NewSession(chatID int64) *Session {
	return &Session{
		ChatID:  chatID,
		State:   Idle,
		Answers: Answers{},
	}
}

func (s *Session) reset(state State) {
	s.State = state
	s.Answers = Answers{}
	s.MessageID = 0
}

// Prompt builds the generation request sent to the music service.
func (a Answers) Prompt() string {
	return fmt.Sprintf("%s music, %s mood, %s tempo, instrument: %s, language: %s, era: %s. Description: %s",
		a[Genre.Field()],
		a[Mood.Field()],
		a[Tempo.Field()],
		a[Instrument.Field()],
		a[Language.Field()],
		a[Era.Field()],
		a[Description.Field()],
	)
}

func (a Answers) summary() string {
	var sb strings.Builder
	for _, line := range []struct {
		icon  string
		label string
		state State
	}{
		{"🎼", "Genre", Genre},
		{"🎭", "Mood", Mood},
		{"⏱", "Tempo", Tempo},
		{"🎹", "Instrument", Instrument},
		{"🌐", "Language", Language},
		{"📅", "Era", Era},
		{"📝", "Description", Description},
	} {
		fmt.Fprintf(&sb, "%s *%s*: %s\n", line.icon, line.label, escape(a[line.state.Field()]))
	}
	return sb.String()
}

var markdown = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// escape quotes the characters that have a meaning in Telegram's Markdown.
func escape(s string) string {
	return markdown.Replace(s)
}
