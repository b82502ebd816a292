package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "archive")
	store, err := New(ctx, "local", root, false)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "generated_music.mp3")
	require.NoError(t, os.WriteFile(src, []byte("song"), 0644))

	name, err := store.Store(ctx, src)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".mp3"))

	u, err := store.URL(ctx, name)
	require.NoError(t, err)
	b, err := os.ReadFile(u)
	require.NoError(t, err)
	assert.Equal(t, "song", string(b))

	// Each call gets its own name
	other, err := store.Store(ctx, src)
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestNewErrors(t *testing.T) {
	ctx := context.Background()
	for _, tt := range []struct{ typ, conn string }{
		{"ftp", "x"},
		{"s3", "nobucket"},
		{"s3", "key@bucket.region"},
		{"s3", "key:secret@bucket"},
	} {
		_, err := New(ctx, tt.typ, tt.conn, false)
		assert.Error(t, err, "%s %s", tt.typ, tt.conn)
	}
}
