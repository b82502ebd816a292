package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/igolaizola/musikbot/pkg/conversation"
	"github.com/igolaizola/musikbot/pkg/elevenlabs"
	"github.com/igolaizola/musikbot/pkg/filestore"
	"github.com/igolaizola/musikbot/pkg/menu"
	"github.com/igolaizola/musikbot/pkg/metrics"
	"github.com/igolaizola/musikbot/pkg/storage"
	"github.com/igolaizola/musikbot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug         bool
	TelegramToken string
	APIKey        string
	APIURL        string
	Output        string
	Proxy         string
	Timeout       time.Duration
	Menus         string

	DBType string
	DBConn string
	FSType string
	FSConn string

	MetricsAddr string
}

// Run launches the telegram bot until the context is cancelled.
func Run(ctx context.Context, cfg *Config) error {
	log.Info().Msg("bot: process started")
	defer log.Info().Msg("bot: process ended")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Fail fast instead of failing on the first request
	if cfg.TelegramToken == "" {
		return errors.New("bot: telegram token is required")
	}
	if cfg.APIKey == "" {
		return errors.New("bot: api key is required")
	}

	menus := menu.Default()
	if cfg.Menus != "" {
		candidate, err := menu.Load(cfg.Menus)
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		menus = candidate
	}

	var hist conversation.History
	if cfg.DBType != "" {
		store, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("bot: couldn't create orm store: %w", err)
		}
		if err := store.Start(ctx); err != nil {
			return fmt.Errorf("bot: couldn't start orm store: %w", err)
		}
		defer func() { _ = store.Stop() }()
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("bot: couldn't migrate orm store: %w", err)
		}
		hist = NewHistory(store)
	}

	var archive conversation.Archive
	if cfg.FSType != "" {
		fs, err := filestore.New(ctx, cfg.FSType, cfg.FSConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("bot: couldn't create file storage: %w", err)
		}
		archive = fs
	}

	httpClient, err := elevenlabs.NewHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	generator := elevenlabs.New(&elevenlabs.Config{
		Key:     cfg.APIKey,
		BaseURL: cfg.APIURL,
		Output:  cfg.Output,
		Client:  httpClient,
		Debug:   cfg.Debug,
	})

	tg, err := telegram.New(cfg.TelegramToken, cfg.Debug)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	ctrl, err := conversation.New(&conversation.Config{
		Menus:     menus,
		Renderer:  tg,
		Generator: generator,
		History:   hist,
		Archive:   archive,
	})
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	if cfg.MetricsAddr != "" {
		server := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("bot: metrics server started")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("bot: metrics server failed")
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	log.Info().Msg("🚀 bot is running...")
	return tg.Run(ctx, ctrl)
}
