// Package scanner drives the trading loop: enumerate bracket events, pull
// their books, run detection, and hand approved opportunities to execution.
package scanner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/audit"
	"github.com/goldbar123467/arb-bot/internal/execution"
	"github.com/goldbar123467/arb-bot/internal/quote"
	"github.com/goldbar123467/arb-bot/internal/risk"
	"github.com/goldbar123467/arb-bot/pkg/types"
)

// VenueData is the market-data surface the scanner reads from.
type VenueData interface {
	ListSeries(ctx context.Context, category string) ([]types.Series, error)
	ListEvents(ctx context.Context, seriesTicker string) ([]types.Event, error)
	GetOrderbook(ctx context.Context, marketTicker string, depth int) (*types.Orderbook, error)
}

// Executor runs one approved opportunity to completion.
type Executor interface {
	Execute(ctx context.Context, opp *arbitrage.Opportunity) (*execution.Outcome, error)
}

// Reconciler settles an outcome against actual fills.
type Reconciler interface {
	Reconcile(ctx context.Context, outcome *execution.Outcome) (*execution.Reconciliation, error)
}

// Config holds scanner dependencies and tuning.
type Config struct {
	Venue      VenueData
	Detector   *arbitrage.Detector
	Gate       *risk.Gate
	Ledger     *risk.Ledger
	Executor   Executor // nil means dry-run: detect and record only
	Reconciler Reconciler
	Recorder   audit.Recorder

	// Updates carries tickers of brackets whose books changed, triggering a
	// rescan ahead of the interval. Optional.
	Updates <-chan string

	Interval     time.Duration
	Category     string
	SeriesFilter []string // explicit series tickers; empty means discover by category
	BookDepth    int
	MinBrackets  int
	MaxBrackets  int
	Logger       *zap.Logger
}

// Scanner runs scan cycles on a fixed interval, cut short when the market-data
// feed reports a book change.
type Scanner struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a scanner.
func New(cfg Config) *Scanner {
	if cfg.Interval == 0 {
		cfg.Interval = 15 * time.Second
	}
	return &Scanner{cfg: cfg, logger: cfg.Logger}
}

// Run blocks, scanning until the context is canceled. The first cycle starts
// immediately.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scanner-stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Scan(ctx)
		case _, ok := <-s.cfg.Updates:
			if !ok {
				// Feed gone; the interval loop keeps covering everything.
				s.cfg.Updates = nil
				continue
			}
			s.drainUpdates()
			FeedTriggeredScansTotal.Inc()
			s.Scan(ctx)
			ticker.Reset(s.cfg.Interval)
		}
	}
}

// drainUpdates collapses a burst of feed notifications into one rescan.
func (s *Scanner) drainUpdates() {
	for {
		select {
		case _, ok := <-s.cfg.Updates:
			if !ok {
				s.cfg.Updates = nil
				return
			}
		default:
			return
		}
	}
}

// Scan runs one full cycle over every series in scope. Errors on one event
// never stop the rest of the cycle.
func (s *Scanner) Scan(ctx context.Context) {
	start := time.Now()
	defer func() {
		CyclesTotal.Inc()
		CycleDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if state := s.cfg.Ledger.Snapshot(); state.Halted {
		s.logger.Warn("scan-skipped-risk-halted", zap.String("reason", state.HaltReason))
		return
	}

	seriesTickers := s.cfg.SeriesFilter
	if len(seriesTickers) == 0 {
		series, err := s.cfg.Venue.ListSeries(ctx, s.cfg.Category)
		if err != nil {
			s.logger.Error("series-listing-failed", zap.Error(err))
			ErrorsTotal.WithLabelValues("list_series").Inc()
			return
		}
		for _, sr := range series {
			seriesTickers = append(seriesTickers, sr.Ticker)
		}
	}

	var eventsScanned, candidates, executions int
	for _, seriesTicker := range seriesTickers {
		events, err := s.cfg.Venue.ListEvents(ctx, seriesTicker)
		if err != nil {
			s.logger.Error("event-listing-failed",
				zap.String("series-ticker", seriesTicker),
				zap.Error(err))
			ErrorsTotal.WithLabelValues("list_events").Inc()
			continue
		}

		for i := range events {
			if ctx.Err() != nil {
				return
			}
			eventsScanned++
			found, executed := s.scanEvent(ctx, &events[i])
			candidates += found
			executions += executed
		}
	}

	summary := &audit.ScanSummary{
		Series:     len(seriesTickers),
		Events:     eventsScanned,
		Candidates: candidates,
		Executions: executions,
		Elapsed:    time.Since(start),
		ScannedAt:  start,
	}
	if err := s.cfg.Recorder.RecordScanSummary(ctx, summary); err != nil {
		s.logger.Error("audit-record-failed", zap.Error(err))
	}

	s.logger.Info("scan-cycle-complete",
		zap.Int("series", len(seriesTickers)),
		zap.Int("events", eventsScanned),
		zap.Int("candidates", candidates),
		zap.Int("executions", executions),
		zap.Duration("elapsed", time.Since(start)))
}

// scanEvent evaluates one event end to end and returns how many candidates
// it produced and how many of them were executed. A malformed book on any
// bracket abandons the whole event: a partial price sum proves nothing.
func (s *Scanner) scanEvent(ctx context.Context, event *types.Event) (found, executed int) {
	EventsScannedTotal.Inc()

	if !event.MutuallyExclusive {
		EventsSkippedTotal.WithLabelValues("not_mutually_exclusive").Inc()
		return 0, 0
	}

	brackets := event.ActiveBrackets()
	if len(brackets) < s.cfg.MinBrackets || len(brackets) > s.cfg.MaxBrackets {
		EventsSkippedTotal.WithLabelValues("bracket_count").Inc()
		return 0, 0
	}

	quotes := make([]quote.Quote, 0, len(brackets))
	for _, bracket := range brackets {
		ob, err := s.cfg.Venue.GetOrderbook(ctx, bracket.Ticker, s.cfg.BookDepth)
		if err != nil {
			s.logger.Warn("orderbook-fetch-failed",
				zap.String("market-ticker", bracket.Ticker),
				zap.Error(err))
			ErrorsTotal.WithLabelValues("get_orderbook").Inc()
			return 0, 0
		}

		q, err := quote.Extract(ob.Normalize(bracket.Ticker))
		if err != nil {
			s.logger.Warn("quote-extraction-failed",
				zap.String("event-ticker", event.Ticker),
				zap.String("market-ticker", bracket.Ticker),
				zap.Error(err))
			EventsSkippedTotal.WithLabelValues("malformed_book").Inc()
			return 0, 0
		}
		quotes = append(quotes, q)
	}

	opps := s.cfg.Detector.Detect(event, quotes)
	for _, opp := range opps {
		if s.handleOpportunity(ctx, opp) {
			executed++
		}
	}
	return len(opps), executed
}

// handleOpportunity gates, records, and possibly executes one candidate. It
// reports whether orders were actually placed.
func (s *Scanner) handleOpportunity(ctx context.Context, opp *arbitrage.Opportunity) bool {
	decision := s.cfg.Gate.Evaluate(opp)
	if err := s.cfg.Recorder.RecordOpportunity(ctx, opp, decision.String()); err != nil {
		s.logger.Error("audit-record-failed", zap.Error(err))
	}
	if !decision.Approved() {
		return false
	}

	if s.cfg.Executor == nil {
		s.logger.Info("dry-run-opportunity-approved",
			zap.String("opportunity-id", opp.ID),
			zap.String("summary", opp.String()))
		DryRunApprovalsTotal.Inc()
		return false
	}

	outcome, err := s.cfg.Executor.Execute(ctx, opp)
	if err != nil {
		s.logger.Error("execution-failed",
			zap.String("opportunity-id", opp.ID),
			zap.Error(err))
		ErrorsTotal.WithLabelValues("execute").Inc()
		return false
	}
	if err := s.cfg.Recorder.RecordExecution(ctx, outcome); err != nil {
		s.logger.Error("audit-record-failed", zap.Error(err))
	}

	rec, err := s.cfg.Reconciler.Reconcile(ctx, outcome)
	if err != nil {
		s.logger.Error("reconciliation-failed",
			zap.String("opportunity-id", opp.ID),
			zap.Error(err))
		ErrorsTotal.WithLabelValues("reconcile").Inc()
		return true
	}
	if err := s.cfg.Recorder.RecordReconciliation(ctx, rec); err != nil {
		s.logger.Error("audit-record-failed", zap.Error(err))
	}
	return true
}
