package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/execution"
)

// PostgresRecorder implements Recorder using PostgreSQL.
type PostgresRecorder struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresRecorder creates a PostgreSQL recorder and verifies the
// connection.
func NewPostgresRecorder(cfg *PostgresConfig) (*PostgresRecorder, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-recorder-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresRecorder{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// RecordScanSummary appends one scan cycle's counts.
func (p *PostgresRecorder) RecordScanSummary(ctx context.Context, sum *ScanSummary) error {
	query := `
		INSERT INTO scan_cycles (
			series, events, candidates, executions, elapsed_ms, scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := p.db.ExecContext(ctx, query,
		sum.Series,
		sum.Events,
		sum.Candidates,
		sum.Executions,
		sum.Elapsed.Milliseconds(),
		sum.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan cycle: %w", err)
	}
	return nil
}

// RecordOpportunity appends a detected opportunity and its gate verdict.
func (p *PostgresRecorder) RecordOpportunity(ctx context.Context, opp *arbitrage.Opportunity, decision string) error {
	query := `
		INSERT INTO opportunities (
			id, event_ticker, direction, detected_at, leg_count,
			sum_price_cents, gross_edge_cents, total_fee_cents,
			net_profit_cents, roi_bps, depth_contracts, contracts, decision
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		opp.ID,
		opp.EventTicker,
		string(opp.Direction),
		opp.DetectedAt,
		len(opp.Legs),
		opp.SumPriceCents,
		opp.GrossEdgeCents,
		opp.TotalFeeCents,
		opp.NetProfitCents,
		opp.ROIBps,
		opp.DepthContracts,
		opp.Contracts,
		decision,
	)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	p.logger.Debug("opportunity-recorded",
		zap.String("opportunity-id", opp.ID),
		zap.String("decision", decision))

	return nil
}

// RecordExecution appends the outcome and one row per leg.
func (p *PostgresRecorder) RecordExecution(ctx context.Context, outcome *execution.Outcome) error {
	query := `
		INSERT INTO executions (
			opportunity_id, class, worst_case_loss_cents, executed_at
		) VALUES ($1, $2, $3, $4)
	`
	_, err := p.db.ExecContext(ctx, query,
		outcome.Opportunity.ID,
		string(outcome.Class),
		outcome.WorstCaseLossCents,
		outcome.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}

	legQuery := `
		INSERT INTO execution_legs (
			opportunity_id, market_ticker, order_id, status,
			price_cents, count, filled_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, leg := range outcome.Legs {
		_, err := p.db.ExecContext(ctx, legQuery,
			outcome.Opportunity.ID,
			leg.Leg.MarketTicker,
			leg.OrderID,
			string(leg.Status),
			leg.Leg.PriceCents,
			leg.Leg.Count,
			leg.FilledCount,
		)
		if err != nil {
			return fmt.Errorf("insert execution leg %s: %w", leg.Leg.MarketTicker, err)
		}
	}

	return nil
}

// RecordReconciliation appends the predicted-versus-actual comparison.
func (p *PostgresRecorder) RecordReconciliation(ctx context.Context, rec *execution.Reconciliation) error {
	query := `
		INSERT INTO reconciliations (
			opportunity_id, class, predicted_net_cents, actual_net_cents,
			slippage_cents, matched_sets, residual_contracts,
			residual_risk_cents, reconciled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := p.db.ExecContext(ctx, query,
		rec.OpportunityID,
		string(rec.Class),
		rec.PredictedNetCents,
		rec.ActualNetCents,
		rec.SlippageCents,
		rec.MatchedSets,
		rec.ResidualContracts,
		rec.ResidualRiskCents,
		rec.ReconciledAt,
	)
	if err != nil {
		return fmt.Errorf("insert reconciliation: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (p *PostgresRecorder) Close() error {
	p.logger.Info("closing-postgres-recorder")
	return p.db.Close()
}
