package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every pipeline collector; serve mode exposes it on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	ItemsFetched = factory.NewCounter(prometheus.CounterOpts{
		Name: "analystbot_items_fetched_total",
		Help: "Unseen feed entries picked for processing.",
	})
	NothingNew = factory.NewCounter(prometheus.CounterOpts{
		Name: "analystbot_feed_nothing_new_total",
		Help: "Feed queries whose entries were all processed already.",
	})
	GenerationAttempts = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "analystbot_generation_attempts_total",
		Help: "Generation backend calls by backend and outcome.",
	}, []string{"backend", "outcome"})
	SentinelArticles = factory.NewCounter(prometheus.CounterOpts{
		Name: "analystbot_generation_exhausted_total",
		Help: "Items for which no backend produced content.",
	})
	ImagesResolved = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "analystbot_images_resolved_total",
		Help: "Resolved illustrative images by provider.",
	}, []string{"provider"})
	Publishes = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "analystbot_publishes_total",
		Help: "Publish attempts by status.",
	}, []string{"status"})
	Runs = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "analystbot_runs_total",
		Help: "Pipeline runs by outcome.",
	}, []string{"outcome"})
	RunDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "analystbot_run_duration_seconds",
		Help:    "Wall time of pipeline runs.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
	})
)

// Health is the last-run status reported by /health.
type Health struct {
	mu sync.RWMutex

	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	LastPublished string
	IsHealthy     bool
}

var Global = &Health{IsHealthy: true}

func (h *Health) SetLastRun(published string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastRunTime = time.Now()
	h.LastPublished = published
	h.IsHealthy = true
}

func (h *Health) SetError(err string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastRunTime = time.Now()
	h.LastError = err
	h.LastErrorTime = time.Now()
	h.IsHealthy = false
}

func (h *Health) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.IsHealthy
}

func (h *Health) GetStats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"last_run_time":   formatTime(h.LastRunTime),
		"last_error_time": formatTime(h.LastErrorTime),
		"last_error":      h.LastError,
		"last_published":  h.LastPublished,
		"is_healthy":      h.IsHealthy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
