package risk

import (
	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
)

// Decision is the gate's verdict for one candidate opportunity.
type Decision int

const (
	Approve Decision = iota
	RejectRiskHalted
	RejectOpenPositionLimit
	RejectDailyOrderLimit
	RejectDailyLossLimit
	RejectBelowProfitFloor
	RejectBelowROIFloor
	RejectInsufficientDepth
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case RejectRiskHalted:
		return "risk_halted"
	case RejectOpenPositionLimit:
		return "open_position_limit"
	case RejectDailyOrderLimit:
		return "daily_order_limit"
	case RejectDailyLossLimit:
		return "daily_loss_limit"
	case RejectBelowProfitFloor:
		return "below_profit_floor"
	case RejectBelowROIFloor:
		return "below_roi_floor"
	case RejectInsufficientDepth:
		return "insufficient_depth"
	default:
		return "unknown"
	}
}

// Approved reports whether the candidate may proceed to execution.
func (d Decision) Approved() bool {
	return d == Approve
}

// GateConfig holds the operator-tunable profitability floors.
type GateConfig struct {
	MinNetProfitCents int64
	MinROIBps         int64
	Logger            *zap.Logger
}

// Gate decides whether an approved-by-detection candidate may be executed.
// Checks run in a fixed order and the first failure wins, so a halted ledger
// is reported as halted even when the candidate is also unprofitable.
type Gate struct {
	ledger *Ledger
	config GateConfig
	logger *zap.Logger
}

// NewGate creates a gate over the given ledger.
func NewGate(ledger *Ledger, cfg GateConfig) *Gate {
	return &Gate{
		ledger: ledger,
		config: cfg,
		logger: cfg.Logger,
	}
}

// Evaluate reads the latest committed ledger state and returns the verdict.
// Approval is advisory for the snapshot instant; the book may move before
// the orders land and there is no re-validation.
func (g *Gate) Evaluate(opp *arbitrage.Opportunity) Decision {
	state := g.ledger.Snapshot()

	decision := g.evaluate(opp, state)
	GateDecisionsTotal.WithLabelValues(decision.String()).Inc()

	if !decision.Approved() {
		g.logger.Debug("opportunity-rejected",
			zap.String("opportunity-id", opp.ID),
			zap.String("event-ticker", opp.EventTicker),
			zap.String("decision", decision.String()))
	}

	return decision
}

func (g *Gate) evaluate(opp *arbitrage.Opportunity, state State) Decision {
	switch {
	case state.Halted:
		return RejectRiskHalted
	case state.OpenPositions >= OpenPositionCeiling:
		return RejectOpenPositionLimit
	case state.DailyOrders >= DailyOrderCeiling:
		return RejectDailyOrderLimit
	case state.DailyLossCents >= DailyLossCeilingCents,
		-state.DailyRealizedPnLCents >= DailyLossCeilingCents:
		return RejectDailyLossLimit
	case opp.NetProfitCents < g.config.MinNetProfitCents:
		return RejectBelowProfitFloor
	case opp.ROIBps < g.config.MinROIBps:
		return RejectBelowROIFloor
	case opp.DepthContracts < opp.Contracts:
		return RejectInsufficientDepth
	default:
		return Approve
	}
}
