package bot

import (
	"context"

	"github.com/igolaizola/musikbot/pkg/conversation"
	"github.com/igolaizola/musikbot/pkg/storage"
	"github.com/oklog/ulid/v2"
)

type history struct {
	store *storage.Store
}

// NewHistory stores confirmed generations in the database.
func NewHistory(store *storage.Store) conversation.History {
	return &history{store: store}
}

func (h *history) Save(ctx context.Context, r *conversation.Record) error {
	a := r.Answers
	return h.store.SetGeneration(ctx, &storage.Generation{
		ID:          ulid.Make().String(),
		ChatID:      r.ChatID,
		Genre:       a[conversation.Genre.Field()],
		Mood:        a[conversation.Mood.Field()],
		Tempo:       a[conversation.Tempo.Field()],
		Instrument:  a[conversation.Instrument.Field()],
		Language:    a[conversation.Language.Field()],
		Era:         a[conversation.Era.Field()],
		Description: a[conversation.Description.Field()],
		Prompt:      r.Prompt,
		Ready:       r.Ready,
		Path:        r.Result.Path,
		Message:     r.Result.Message,
		Archive:     r.Archive,
		Duration:    float32(r.Elapsed.Seconds()),
	})
}
