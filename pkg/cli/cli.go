package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/igolaizola/musikbot"
	"github.com/igolaizola/musikbot/pkg/cmd/bot"
	"github.com/igolaizola/musikbot/pkg/cmd/history"
	"github.com/igolaizola/musikbot/pkg/cmd/menus"
	"github.com/igolaizola/musikbot/pkg/cmd/migrate"
	"github.com/igolaizola/musikbot/pkg/elevenlabs"
	"github.com/peterbourgon/ff/ffyaml"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envPrefix = "MUSIKBOT"

func New(version, commit, date string) *ffcli.Command {
	fs := flag.NewFlagSet("musikbot", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "musikbot [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newVersionCommand(version, commit, date),
			newBotCommand(),
			newSongCommand(),
			newHistoryCommand(),
			newMigrateCommand(),
			newMenusCommand(),
		},
	}
}

func newVersionCommand(version, commit, date string) *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "musikbot version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" {
				v = "dev"
			}
			versionFields := []string{v}
			if commit != "" {
				versionFields = append(versionFields, commit)
			}
			if date != "" {
				versionFields = append(versionFields, date)
			}
			fmt.Println(strings.Join(versionFields, " "))
			return nil
		},
	}
}

func newBotCommand() *ffcli.Command {
	cmd := "bot"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &bot.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.TelegramToken, "telegram-token", os.Getenv("TELEGRAM_BOT_TOKEN"), "telegram bot token (defaults to TELEGRAM_BOT_TOKEN)")
	fs.StringVar(&cfg.APIKey, "api-key", os.Getenv("API_KEY"), "elevenlabs api key (defaults to API_KEY)")
	fs.StringVar(&cfg.APIURL, "api-url", elevenlabs.DefaultURL, "elevenlabs music endpoint")
	fs.StringVar(&cfg.Output, "output", elevenlabs.DefaultOutput, "file where generated songs are written")
	fs.StringVar(&cfg.Proxy, "proxy", "", "proxy to use")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "timeout for generation requests (0 means no timeout)")
	fs.StringVar(&cfg.Menus, "menus", "", "menu file to override the embedded menus (yaml or json)")

	fs.StringVar(&cfg.DBType, "db-type", "", "db type to keep history (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.StringVar(&cfg.FSType, "fs-type", "", "fs type to archive songs (local, s3)")
	fs.StringVar(&cfg.FSConn, "fs-conn", "", "path for local, key:secret@bucket.region for s3")

	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address to serve metrics on (empty disables it)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("musikbot %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("musikbot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			setupLog(cfg.Debug)
			return bot.Run(ctx, cfg)
		},
	}
}

func newSongCommand() *ffcli.Command {
	cmd := "song"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &musikbot.Config{}
	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.Key, "api-key", os.Getenv("API_KEY"), "elevenlabs api key (defaults to API_KEY)")
	fs.StringVar(&cfg.URL, "api-url", elevenlabs.DefaultURL, "elevenlabs music endpoint")
	fs.StringVar(&cfg.Output, "output", elevenlabs.DefaultOutput, "output file")
	fs.StringVar(&cfg.Proxy, "proxy", "", "proxy to use")
	fs.DurationVar(&cfg.Timeout, "timeout", 5*time.Minute, "timeout for the request (0 means no timeout)")

	var prompt string
	fs.StringVar(&prompt, "prompt", "", "prompt to generate the song")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("musikbot %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("musikbot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			setupLog(cfg.Debug)
			return musikbot.GenerateSong(ctx, cfg, prompt)
		},
	}
}

func newHistoryCommand() *ffcli.Command {
	cmd := "history"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &history.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.StringVar(&cfg.FSType, "fs-type", "", "fs type to resolve archive links (local, s3)")
	fs.StringVar(&cfg.FSConn, "fs-conn", "", "path for local, key:secret@bucket.region for s3")
	fs.Int64Var(&cfg.ChatID, "chat", 0, "only show generations of this chat")
	fs.BoolVar(&cfg.Ready, "ready", false, "only show delivered songs")
	fs.IntVar(&cfg.Limit, "limit", 20, "number of generations to show")
	fs.IntVar(&cfg.Page, "page", 1, "page to show")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("musikbot %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("musikbot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			setupLog(cfg.Debug)
			return history.Run(ctx, cfg)
		},
	}
}

func newMigrateCommand() *ffcli.Command {
	cmd := "migrate"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &migrate.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("musikbot %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("musikbot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			setupLog(cfg.Debug)
			return migrate.Run(ctx, cfg)
		},
	}
}

func newMenusCommand() *ffcli.Command {
	cmd := "menus"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &menus.Config{}
	fs.StringVar(&cfg.Input, "input", "", "menu file to check (empty shows the embedded menus)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("musikbot %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("musikbot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			setupLog(false)
			return menus.Run(ctx, cfg)
		},
	}
}

func options() []ff.Option {
	return []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithEnvVarPrefix(envPrefix),
	}
}

func setupLog(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
