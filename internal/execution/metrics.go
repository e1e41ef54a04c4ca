package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExecutionsTotal tracks executed opportunities by outcome class.
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_executions_total",
			Help: "Total number of executed opportunities by outcome class",
		},
		[]string{"class"},
	)

	// LegResultsTotal tracks individual leg outcomes by status.
	LegResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_leg_results_total",
			Help: "Total number of leg results by status",
		},
		[]string{"status"},
	)

	// CancelsTotal tracks compensating cancel attempts.
	CancelsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_compensating_cancels_total",
		Help: "Total number of compensating cancel attempts",
	})

	// ExecutionDurationSeconds tracks submit-to-classification latency.
	ExecutionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracket_arb_execution_duration_seconds",
		Help:    "Duration from first submission to outcome classification",
		Buckets: prometheus.DefBuckets,
	})

	// ReconciliationsTotal tracks reconciliations by outcome class.
	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_reconciliations_total",
			Help: "Total number of reconciliations by outcome class",
		},
		[]string{"class"},
	)

	// SlippageCents tracks predicted minus actual net profit.
	SlippageCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracket_arb_slippage_cents",
		Help:    "Predicted minus actual net profit in cents",
		Buckets: []float64{-100, -50, -20, -10, -5, 0, 5, 10, 20, 50, 100, 200, 500},
	})
)
