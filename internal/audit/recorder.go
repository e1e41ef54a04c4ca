// Package audit is the append-only trail of everything the bot decided and
// did: detections with their gate verdicts, executions leg by leg, and
// reconciliations.
package audit

import (
	"context"
	"time"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/execution"
)

// ScanSummary is one scan cycle's headline counts.
type ScanSummary struct {
	Series     int
	Events     int
	Candidates int
	Executions int
	Elapsed    time.Duration
	ScannedAt  time.Time
}

// Recorder persists audit records. Records are append-only; nothing in the
// bot updates or deletes them.
type Recorder interface {
	RecordScanSummary(ctx context.Context, sum *ScanSummary) error
	RecordOpportunity(ctx context.Context, opp *arbitrage.Opportunity, decision string) error
	RecordExecution(ctx context.Context, outcome *execution.Outcome) error
	RecordReconciliation(ctx context.Context, rec *execution.Reconciliation) error
	Close() error
}
