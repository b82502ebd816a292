package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	root := New("v1.0.0", "abc", "2024-01-01")
	var names []string
	for _, c := range root.Subcommands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"version", "bot", "song", "history", "migrate", "menus"}, names)
}

func TestBotFlags(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("MUSIKBOT_METRICS_ADDR", ":9090")
	cmd := newBotCommand()
	require.NoError(t, cmd.Parse([]string{"-api-key", "flag-key"}))
	assert.Equal(t, "env-token", cmd.FlagSet.Lookup("telegram-token").Value.String())
	assert.Equal(t, "flag-key", cmd.FlagSet.Lookup("api-key").Value.String())
	assert.Equal(t, ":9090", cmd.FlagSet.Lookup("metrics-addr").Value.String())
	assert.Equal(t, "generated_music.mp3", cmd.FlagSet.Lookup("output").Value.String())
}
