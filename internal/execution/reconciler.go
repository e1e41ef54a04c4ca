package execution

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/fees"
	"github.com/goldbar123467/arb-bot/internal/risk"
)

// Reconciliation compares the profit predicted at detection time against
// what the fills actually delivered.
type Reconciliation struct {
	OpportunityID     string
	Class             OutcomeClass
	PredictedNetCents int64
	ActualNetCents    int64
	SlippageCents     int64
	MatchedSets       int64
	ResidualContracts int64
	ResidualRiskCents int64
	ReconciledAt      time.Time
}

// Reconciler resolves the true economics of an execution outcome and issues
// the single corrective ledger write. It is the only component allowed to
// shrink a previously recorded worst-case loss.
type Reconciler struct {
	client OrderClient
	ledger *risk.Ledger
	logger *zap.Logger
}

// NewReconciler creates a reconciler over the given order client and ledger.
func NewReconciler(client OrderClient, ledger *risk.Ledger, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		client: client,
		ledger: ledger,
		logger: logger,
	}
}

// Reconcile refreshes any unresolved legs, computes actual net profit from
// real fills, and corrects the ledger. Matched contract sets are the minimum
// fill across legs; fills beyond that are residual one-sided exposure.
func (r *Reconciler) Reconcile(ctx context.Context, outcome *Outcome) (*Reconciliation, error) {
	opp := outcome.Opportunity
	legs := r.refreshUnresolved(ctx, outcome.Legs)

	matched := matchedSets(legs)

	var totalFees, residual, residualRisk int64
	for _, leg := range legs {
		if leg.FilledCount == 0 {
			continue
		}
		fee, err := fees.TakerFeeCents(leg.FilledCount, leg.Leg.PriceCents)
		if err != nil {
			return nil, err
		}
		totalFees += fee

		extra := leg.FilledCount - matched
		residual += extra
		if opp.Direction == arbitrage.DirectionLong {
			residualRisk += leg.Leg.PriceCents * extra
		} else {
			residualRisk += (100 - leg.Leg.PriceCents) * extra
		}
	}

	actualNet := matched*opp.GrossEdgeCents - totalFees

	rec := &Reconciliation{
		OpportunityID:     opp.ID,
		Class:             outcome.Class,
		PredictedNetCents: opp.NetProfitCents,
		ActualNetCents:    actualNet,
		SlippageCents:     opp.NetProfitCents - actualNet,
		MatchedSets:       matched,
		ResidualContracts: residual,
		ResidualRiskCents: residualRisk,
		ReconciledAt:      time.Now(),
	}

	corr := risk.Correction{
		LossDeltaCents:   residualRisk - outcome.WorstCaseLossCents,
		RealizedPnLCents: actualNet,
	}
	// A mixed outcome that ended with nothing filled and nothing residual was
	// fully flattened by the compensating cancels: nothing stays open.
	if outcome.Class == Mixed && matched == 0 && residual == 0 {
		corr.ClosedPositions = 1
	}
	r.ledger.CommitCorrection(corr)

	ReconciliationsTotal.WithLabelValues(string(outcome.Class)).Inc()
	SlippageCents.Observe(float64(rec.SlippageCents))

	r.logger.Info("execution-reconciled",
		zap.String("opportunity-id", opp.ID),
		zap.String("class", string(outcome.Class)),
		zap.Int64("predicted-net-cents", rec.PredictedNetCents),
		zap.Int64("actual-net-cents", rec.ActualNetCents),
		zap.Int64("slippage-cents", rec.SlippageCents),
		zap.Int64("matched-sets", rec.MatchedSets),
		zap.Int64("residual-contracts", rec.ResidualContracts))

	return rec, nil
}

// refreshUnresolved re-fetches legs whose state was unknown at join time.
// A leg that still cannot be fetched keeps its pessimistic error state.
func (r *Reconciler) refreshUnresolved(ctx context.Context, legs []LegResult) []LegResult {
	resolved := make([]LegResult, len(legs))
	copy(resolved, legs)

	for i := range resolved {
		lr := &resolved[i]
		if lr.Status != LegError || lr.OrderID == "" {
			continue
		}
		order, err := r.client.GetOrder(ctx, lr.OrderID)
		if err != nil {
			r.logger.Warn("leg-still-unresolved",
				zap.String("order-id", lr.OrderID),
				zap.Error(err))
			continue
		}
		*lr = legResultFromFill(lr.Leg, order)
	}

	return resolved
}

// matchedSets is the number of complete contract sets across all legs. A leg
// still in the error state has an unknown fill and contributes zero, keeping
// realized profit pessimistic.
func matchedSets(legs []LegResult) int64 {
	if len(legs) == 0 {
		return 0
	}
	matched := legs[0].FilledCount
	for _, lr := range legs {
		if lr.Status == LegError {
			return 0
		}
		if lr.FilledCount < matched {
			matched = lr.FilledCount
		}
	}
	return matched
}
