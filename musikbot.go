package musikbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/igolaizola/musikbot/pkg/elevenlabs"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Key     string
	URL     string
	Proxy   string
	Timeout time.Duration
	Output  string
	Debug   bool
}

// GenerateSong generates a song given a prompt and writes it to the output file.
func GenerateSong(ctx context.Context, cfg *Config, prompt string) error {
	if cfg.Key == "" {
		return errors.New("musikbot: api key is required")
	}
	if prompt == "" {
		return errors.New("musikbot: prompt is required")
	}
	httpClient, err := elevenlabs.NewHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return err
	}
	client := elevenlabs.New(&elevenlabs.Config{
		Key:     cfg.Key,
		BaseURL: cfg.URL,
		Output:  cfg.Output,
		Client:  httpClient,
		Debug:   cfg.Debug,
	})
	res := client.Generate(ctx, prompt)
	if res.Path == "" {
		msg := res.Message
		if msg == "" {
			msg = "unexpected response"
		}
		return fmt.Errorf("musikbot: couldn't generate song: %s", msg)
	}
	log.Info().Str("path", res.Path).Msg("song generated")
	return nil
}
