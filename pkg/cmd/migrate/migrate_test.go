package migrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/igolaizola/musikbot/pkg/storage"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "migrate.db")
	require.NoError(t, Run(ctx, &Config{DBType: "sqlite", DBConn: path}))

	store, err := storage.New("sqlite", path, false)
	require.NoError(t, err)
	require.NoError(t, store.Start(ctx))
	defer func() { _ = store.Stop() }()
	require.NoError(t, store.SetGeneration(ctx, &storage.Generation{ID: "01A", Prompt: "Pop music"}))

	require.Error(t, Run(ctx, &Config{DBType: "mongo"}))
}
