package quote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExtractionsTotal tracks successful quote extractions.
	ExtractionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_quote_extractions_total",
		Help: "Total number of successful quote extractions",
	})

	// MalformedLevelsTotal tracks books rejected for malformed levels.
	MalformedLevelsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_arb_quote_malformed_levels_total",
		Help: "Total number of books rejected due to malformed price levels",
	})
)
