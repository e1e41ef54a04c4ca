package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/execution"
)

func TestConsoleRecorder(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	rec := NewConsoleRecorder(logger)
	ctx := context.Background()

	opp := arbitrage.CreateTestOpportunity("KXHIGHNY-24AUG23")
	require.NoError(t, rec.RecordOpportunity(ctx, opp, "approve"))

	outcome := &execution.Outcome{
		Opportunity: opp,
		Class:       execution.AllFilled,
		Legs: []execution.LegResult{
			{Leg: opp.Legs[0], OrderID: "o1", Status: execution.LegFilled, FilledCount: 5},
		},
		ExecutedAt: time.Now(),
	}
	require.NoError(t, rec.RecordExecution(ctx, outcome))

	reconciliation := &execution.Reconciliation{
		OpportunityID:     opp.ID,
		Class:             execution.AllFilled,
		PredictedNetCents: 53,
		ActualNetCents:    53,
		ReconciledAt:      time.Now(),
	}
	require.NoError(t, rec.RecordReconciliation(ctx, reconciliation))
	require.NoError(t, rec.RecordScanSummary(ctx, &ScanSummary{
		Series:     1,
		Events:     3,
		Candidates: 1,
		Executions: 1,
		Elapsed:    2 * time.Second,
		ScannedAt:  time.Now(),
	}))
	require.NoError(t, rec.Close())
}

func TestPostgresRecorder_RecordScanSummary(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := &PostgresRecorder{db: db, logger: logger}

	sum := &ScanSummary{
		Series:     2,
		Events:     14,
		Candidates: 3,
		Executions: 1,
		Elapsed:    1500 * time.Millisecond,
		ScannedAt:  time.Now(),
	}

	mock.ExpectExec("INSERT INTO scan_cycles").
		WithArgs(2, 14, 3, 1, int64(1500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = rec.RecordScanSummary(context.Background(), sum)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecorder_RecordOpportunity(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := &PostgresRecorder{db: db, logger: logger}

	opp := arbitrage.CreateTestOpportunity("KXHIGHNY-24AUG23")

	mock.ExpectExec("INSERT INTO opportunities").
		WithArgs(
			opp.ID,
			opp.EventTicker,
			string(opp.Direction),
			sqlmock.AnyArg(), // DetectedAt
			len(opp.Legs),
			opp.SumPriceCents,
			opp.GrossEdgeCents,
			opp.TotalFeeCents,
			opp.NetProfitCents,
			opp.ROIBps,
			opp.DepthContracts,
			opp.Contracts,
			"below_profit_floor",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = rec.RecordOpportunity(context.Background(), opp, "below_profit_floor")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecorder_RecordExecutionWritesLegRows(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := &PostgresRecorder{db: db, logger: logger}

	opp := arbitrage.CreateTestOpportunity("KXHIGHNY-24AUG23")
	outcome := &execution.Outcome{
		Opportunity:        opp,
		Class:              execution.Mixed,
		WorstCaseLossCents: 100,
		Legs: []execution.LegResult{
			{Leg: opp.Legs[0], OrderID: "o1", Status: execution.LegFilled, FilledCount: 5},
			{Leg: opp.Legs[1], OrderID: "o2", Status: execution.LegRejected},
		},
		ExecutedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO executions").
		WithArgs(opp.ID, "mixed", int64(100), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO execution_legs").
		WithArgs(opp.ID, opp.Legs[0].MarketTicker, "o1", "filled", int64(20), int64(5), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO execution_legs").
		WithArgs(opp.ID, opp.Legs[1].MarketTicker, "o2", "rejected", int64(25), int64(5), int64(0)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = rec.RecordExecution(context.Background(), outcome)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecorder_RecordReconciliation(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := &PostgresRecorder{db: db, logger: logger}

	opp := arbitrage.CreateTestOpportunity("KXHIGHNY-24AUG23")
	reconciliation := &execution.Reconciliation{
		OpportunityID:     opp.ID,
		Class:             execution.Mixed,
		PredictedNetCents: 53,
		ActualNetCents:    12,
		SlippageCents:     41,
		MatchedSets:       2,
		ResidualContracts: 6,
		ResidualRiskCents: 180,
		ReconciledAt:      time.Now(),
	}

	mock.ExpectExec("INSERT INTO reconciliations").
		WithArgs(opp.ID, "mixed", int64(53), int64(12), int64(41), int64(2), int64(6), int64(180), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = rec.RecordReconciliation(context.Background(), reconciliation)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecorder_InsertError(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := &PostgresRecorder{db: db, logger: logger}

	opp := arbitrage.CreateTestOpportunity("KXHIGHNY-24AUG23")

	mock.ExpectExec("INSERT INTO opportunities").
		WillReturnError(sqlmock.ErrCancelled)

	err = rec.RecordOpportunity(context.Background(), opp, "approve")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_Interface(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	var _ Recorder = NewConsoleRecorder(logger)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var _ Recorder = &PostgresRecorder{db: db, logger: logger}
}
