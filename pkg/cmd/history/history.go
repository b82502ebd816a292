package history

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/igolaizola/musikbot/pkg/filestore"
	"github.com/igolaizola/musikbot/pkg/storage"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug  bool
	DBType string
	DBConn string
	FSType string
	FSConn string

	ChatID int64
	Ready  bool
	Limit  int
	Page   int
}

// Run prints the most recent generations.
func Run(ctx context.Context, cfg *Config) error {
	store, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
	if err != nil {
		return fmt.Errorf("history: couldn't create orm store: %w", err)
	}
	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("history: couldn't start orm store: %w", err)
	}
	defer func() { _ = store.Stop() }()

	var fs *filestore.Store
	if cfg.FSType != "" {
		fs, err = filestore.New(ctx, cfg.FSType, cfg.FSConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("history: couldn't create file storage: %w", err)
		}
	}

	return list(ctx, os.Stdout, store, fs, cfg)
}

func list(ctx context.Context, w io.Writer, store *storage.Store, fs *filestore.Store, cfg *Config) error {
	var filters []storage.Filter
	if cfg.ChatID != 0 {
		filters = append(filters, storage.Where("chat_id = ?", cfg.ChatID))
	}
	if cfg.Ready {
		filters = append(filters, storage.Where("ready = ?", true))
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 20
	}
	gens, err := store.ListGenerations(ctx, cfg.Page, limit, "created_at desc", filters...)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCHAT\tREADY\tSECONDS\tPROMPT\tRESULT")
	for _, g := range gens {
		result := truncate(g.Message, 80)
		if g.Ready {
			result = g.Path
			if g.Archive != "" {
				result = g.Archive
				if fs != nil {
					u, err := fs.URL(ctx, g.Archive)
					if err != nil {
						log.Warn().Err(err).Str("id", g.ID).Msg("history: couldn't get archive url")
					} else {
						result = u
					}
				}
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%.1f\t%s\t%s\n",
			g.ID, g.CreatedAt.Format("2006-01-02 15:04"), g.ChatID, g.Ready, g.Duration,
			truncate(g.Prompt, 60), result)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("history: couldn't write output: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
