package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	ready := testutil.ToFloat64(GenerationsTotal.WithLabelValues("ready"))
	failed := testutil.ToFloat64(GenerationsTotal.WithLabelValues("failed"))

	ObserveGeneration(true, 2*time.Second)
	ObserveGeneration(false, time.Second)
	ObserveGeneration(false, time.Second)

	assert.Equal(t, ready+1, testutil.ToFloat64(GenerationsTotal.WithLabelValues("ready")))
	assert.Equal(t, failed+2, testutil.ToFloat64(GenerationsTotal.WithLabelValues("failed")))
}

func TestConversationCancelled(t *testing.T) {
	before := testutil.ToFloat64(CancelledTotal.WithLabelValues("MOOD"))
	ConversationCancelled("MOOD")
	assert.Equal(t, before+1, testutil.ToFloat64(CancelledTotal.WithLabelValues("MOOD")))
}

func TestHandler(t *testing.T) {
	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))

	ConversationStarted()
	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	b, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(b), "musikbot_conversations_total")
}
