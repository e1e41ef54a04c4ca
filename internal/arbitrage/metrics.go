package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesDetectedTotal tracks detected opportunities by direction.
	OpportunitiesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_opportunities_detected_total",
			Help: "Total number of bracket arbitrage opportunities detected",
		},
		[]string{"direction"},
	)

	// EventsSkippedTotal tracks events that produced no candidate, by reason.
	EventsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_events_skipped_total",
			Help: "Total number of events skipped during detection",
		},
		[]string{"reason"},
	)

	// GrossEdgeCents tracks the gross edge of detected opportunities.
	GrossEdgeCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracket_arb_gross_edge_cents",
		Help:    "Gross edge per contract set in cents",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 20, 35, 50},
	})

	// NetProfitCents tracks net profit after fees of detected opportunities.
	NetProfitCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracket_arb_net_profit_cents",
		Help:    "Net profit after fees in cents",
		Buckets: []float64{-50, -20, -10, -5, 0, 5, 10, 20, 50, 100, 200},
	})

	// DetectionDurationSeconds tracks per-event detection latency.
	DetectionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracket_arb_detection_duration_seconds",
		Help:    "Duration of per-event arbitrage detection",
		Buckets: prometheus.DefBuckets,
	})
)
