package migrate

import (
	"context"
	"fmt"

	"github.com/igolaizola/musikbot/pkg/storage"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug  bool
	DBType string
	DBConn string
}

// Run creates or updates the generation history schema.
func Run(ctx context.Context, cfg *Config) error {
	store, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
	if err != nil {
		return fmt.Errorf("migrate: couldn't create: %w", err)
	}
	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("migrate: couldn't start: %w", err)
	}
	defer func() { _ = store.Stop() }()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: couldn't migrate: %w", err)
	}
	log.Info().Str("db", cfg.DBType).Msg("migrate: schema up to date")
	return nil
}
