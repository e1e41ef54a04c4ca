package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GateDecisionsTotal tracks gate verdicts by decision.
	GateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_gate_decisions_total",
			Help: "Total number of gate decisions",
		},
		[]string{"decision"},
	)

	// HaltsTotal tracks Normal to Halted transitions by trigger.
	HaltsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bracket_arb_risk_halts_total",
			Help: "Total number of risk halt transitions",
		},
		[]string{"reason"},
	)

	// HaltedGauge is 1 while trading is halted.
	HaltedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bracket_arb_risk_halted",
		Help: "Whether trading is currently halted (1) or normal (0)",
	})

	// OpenPositionsGauge tracks currently open arbitrage positions.
	OpenPositionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bracket_arb_open_positions",
		Help: "Number of currently open arbitrage positions",
	})

	// DailyOrdersGauge tracks orders placed today.
	DailyOrdersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bracket_arb_daily_orders",
		Help: "Number of orders placed during the current day",
	})

	// DailyLossCentsGauge tracks today's worst-case loss exposure.
	DailyLossCentsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bracket_arb_daily_loss_cents",
		Help: "Worst-case loss exposure for the current day in cents",
	})
)
