package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal tracks completed scan cycles.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_scan_cycles_total",
		Help: "Total number of completed scan cycles",
	})

	// CycleDurationSeconds tracks how long a full scan cycle takes.
	CycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracket_arb_scan_cycle_duration_seconds",
		Help:    "Duration of scan cycles in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// EventsScannedTotal tracks events considered across all cycles.
	EventsScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_scan_events_total",
		Help: "Total number of events considered by the scanner",
	})

	// EventsSkippedTotal tracks events discarded before detection, by reason.
	EventsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracket_arb_scan_events_skipped_total",
		Help: "Total number of events skipped before detection",
	}, []string{"reason"})

	// FeedTriggeredScansTotal tracks cycles started by a feed notification
	// instead of the interval.
	FeedTriggeredScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_scan_feed_triggered_total",
		Help: "Total number of scan cycles triggered by the market-data feed",
	})

	// DryRunApprovalsTotal tracks opportunities that would have traded.
	DryRunApprovalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_scan_dry_run_approvals_total",
		Help: "Total number of gate-approved opportunities in dry-run mode",
	})

	// ErrorsTotal tracks scan failures by stage.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracket_arb_scan_errors_total",
		Help: "Total number of scan errors by stage",
	}, []string{"stage"})
)
