package musikbot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSong(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, `{"detail":"quota exceeded"}`, status)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3"))
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "song.mp3")
	cfg := &Config{Key: "k", URL: server.URL, Output: output}

	require.NoError(t, GenerateSong(context.Background(), cfg, "lofi beats"))
	b, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "mp3", string(b))

	status = http.StatusPaymentRequired
	err = GenerateSong(context.Background(), cfg, "lofi beats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")

	assert.Error(t, GenerateSong(context.Background(), &Config{}, "lofi beats"))
	assert.Error(t, GenerateSong(context.Background(), cfg, ""))
}
