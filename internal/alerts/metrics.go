package alerts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SentTotal tracks alert delivery attempts.
	SentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_alerts_sent_total",
		Help: "Total number of alert delivery attempts",
	})

	// FailuresTotal tracks alert deliveries that failed.
	FailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_alerts_failures_total",
		Help: "Total number of failed alert deliveries",
	})
)
