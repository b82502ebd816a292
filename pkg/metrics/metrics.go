package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConversationsTotal counts conversation transitions by event
	// (started, cancelled, confirmed).
	ConversationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musikbot_conversations_total",
		Help: "Total number of conversation lifecycle events",
	}, []string{"event"})

	// CancelledTotal counts cancellations by the state they happened in.
	CancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musikbot_cancelled_total",
		Help: "Total number of cancelled conversations by state",
	}, []string{"state"})

	// GenerationsTotal counts generation outcomes (ready, failed).
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musikbot_generations_total",
		Help: "Total number of generation requests by result",
	}, []string{"result"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "musikbot_generation_duration_seconds",
		Help:    "Time taken by the music generation service",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	})
)

func ConversationStarted() {
	ConversationsTotal.WithLabelValues("started").Inc()
}

func ConversationConfirmed() {
	ConversationsTotal.WithLabelValues("confirmed").Inc()
}

func ConversationCancelled(state string) {
	ConversationsTotal.WithLabelValues("cancelled").Inc()
	CancelledTotal.WithLabelValues(state).Inc()
}

// ObserveGeneration records the outcome and latency of a generation.
func ObserveGeneration(ready bool, d time.Duration) {
	result := "failed"
	if ready {
		result = "ready"
	}
	GenerationsTotal.WithLabelValues(result).Inc()
	GenerationDuration.Observe(d.Seconds())
}

// Handler serves /metrics and /healthz.
func Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
