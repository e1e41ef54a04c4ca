package kalshi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks API requests by method and response status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_venue_requests_total",
			Help: "Total number of venue API requests",
		},
		[]string{"method", "status"},
	)

	// RequestDurationSeconds tracks API request latency.
	RequestDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracket_arb_venue_request_duration_seconds",
		Help:    "Venue API request duration",
		Buckets: prometheus.DefBuckets,
	})

	// RateLimitedTotal tracks rate-limit responses that triggered a backoff.
	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_venue_rate_limited_total",
		Help: "Total number of rate-limited venue responses",
	})

	// SeriesCacheHitsTotal tracks series listings served from cache.
	SeriesCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_series_cache_hits_total",
		Help: "Total number of series cache hits",
	})

	// SeriesCacheMissesTotal tracks series listings fetched from the API.
	SeriesCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_series_cache_misses_total",
		Help: "Total number of series cache misses",
	})

	// FeedMessagesTotal tracks websocket messages by type.
	FeedMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_feed_messages_total",
			Help: "Total number of websocket feed messages",
		},
		[]string{"type"},
	)

	// FeedReconnectsTotal tracks websocket reconnect attempts.
	FeedReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_feed_reconnects_total",
		Help: "Total number of websocket reconnect attempts",
	})

	// FeedDroppedUpdatesTotal tracks updates dropped under backpressure.
	FeedDroppedUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_feed_dropped_updates_total",
		Help: "Total number of feed updates dropped due to backpressure",
	})
)
