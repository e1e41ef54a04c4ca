package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/execution"
)

// ConsoleRecorder implements Recorder by structured logging only. It is the
// default when no database is configured.
type ConsoleRecorder struct {
	logger *zap.Logger
}

// NewConsoleRecorder creates a console recorder.
func NewConsoleRecorder(logger *zap.Logger) *ConsoleRecorder {
	logger.Info("console-recorder-initialized")
	return &ConsoleRecorder{logger: logger}
}

// RecordScanSummary logs one scan cycle's counts.
func (c *ConsoleRecorder) RecordScanSummary(_ context.Context, sum *ScanSummary) error {
	c.logger.Info("audit-scan-cycle",
		zap.Int("series", sum.Series),
		zap.Int("events", sum.Events),
		zap.Int("candidates", sum.Candidates),
		zap.Int("executions", sum.Executions),
		zap.Duration("elapsed", sum.Elapsed))
	return nil
}

// RecordOpportunity logs a detected opportunity and its gate verdict.
func (c *ConsoleRecorder) RecordOpportunity(_ context.Context, opp *arbitrage.Opportunity, decision string) error {
	c.logger.Info("audit-opportunity",
		zap.String("opportunity-id", opp.ID),
		zap.String("event-ticker", opp.EventTicker),
		zap.String("direction", string(opp.Direction)),
		zap.Int("legs", len(opp.Legs)),
		zap.Int64("sum-cents", opp.SumPriceCents),
		zap.Int64("gross-edge-cents", opp.GrossEdgeCents),
		zap.Int64("net-profit-cents", opp.NetProfitCents),
		zap.Int64("roi-bps", opp.ROIBps),
		zap.Int64("depth-contracts", opp.DepthContracts),
		zap.String("decision", decision))
	return nil
}

// RecordExecution logs an execution outcome with every leg result.
func (c *ConsoleRecorder) RecordExecution(_ context.Context, outcome *execution.Outcome) error {
	fields := []zap.Field{
		zap.String("opportunity-id", outcome.Opportunity.ID),
		zap.String("class", string(outcome.Class)),
		zap.Int64("worst-case-loss-cents", outcome.WorstCaseLossCents),
	}
	for _, leg := range outcome.Legs {
		fields = append(fields, zap.String("leg-"+leg.Leg.MarketTicker, string(leg.Status)))
	}
	c.logger.Info("audit-execution", fields...)
	return nil
}

// RecordReconciliation logs the predicted-versus-actual comparison.
func (c *ConsoleRecorder) RecordReconciliation(_ context.Context, rec *execution.Reconciliation) error {
	c.logger.Info("audit-reconciliation",
		zap.String("opportunity-id", rec.OpportunityID),
		zap.String("class", string(rec.Class)),
		zap.Int64("predicted-net-cents", rec.PredictedNetCents),
		zap.Int64("actual-net-cents", rec.ActualNetCents),
		zap.Int64("slippage-cents", rec.SlippageCents),
		zap.Int64("matched-sets", rec.MatchedSets),
		zap.Int64("residual-contracts", rec.ResidualContracts))
	return nil
}

// Close is a no-op for the console recorder.
func (c *ConsoleRecorder) Close() error {
	c.logger.Info("closing-console-recorder")
	return nil
}
