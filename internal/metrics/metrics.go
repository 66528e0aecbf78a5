package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes
const (
	OutcomeSuccess          = "success"
	OutcomeImagePlaceholder = "image_placeholder"
	OutcomeFallback         = "fallback"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempohub_http_requests_total",
			Help: "Total HTTP requests served by the public API",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tempohub_http_request_duration_seconds",
			Help:    "Latency of public API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempohub_generations_total",
			Help: "AI event-detail generations by outcome",
		},
		[]string{"outcome"},
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tempohub_generation_duration_seconds",
			Help:    "Duration of the text + image generation sequence",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	eventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tempohub_events_created_total",
			Help: "Events created through the AI-assisted flow",
		},
	)

	publishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempohub_publish_failures_total",
			Help: "Domain events that could not be published",
		},
		[]string{"type"},
	)
)

// TrackRequest records one served HTTP request.
func TrackRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// TrackGeneration records the outcome of one generation sequence.
func TrackGeneration(outcome string, elapsed time.Duration) {
	generations.WithLabelValues(outcome).Inc()
	generationDuration.Observe(elapsed.Seconds())
}

func TrackEventCreated() {
	eventsCreated.Inc()
}

func TrackPublishFailure(eventType string) {
	publishFailures.WithLabelValues(eventType).Inc()
}
