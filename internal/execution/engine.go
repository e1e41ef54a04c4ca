// Package execution places the per-bracket legs of an approved opportunity,
// classifies the aggregate outcome, and compensates partial executions.
package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/risk"
	"github.com/goldbar123467/arb-bot/pkg/types"
)

// LegStatus is the terminal classification of one leg at join time.
type LegStatus string

const (
	LegFilled          LegStatus = "filled"
	LegPartiallyFilled LegStatus = "partially_filled"
	LegResting         LegStatus = "resting"
	LegRejected        LegStatus = "rejected"
	// LegError marks a leg whose true state is unknown after transport
	// failure or timeout. Unknown is handled like resting: the leg gets a
	// compensating cancel and the loss bound assumes the worst.
	LegError LegStatus = "error"
)

// LegResult is the outcome of one bracket order.
type LegResult struct {
	Leg         arbitrage.Leg
	OrderID     string
	Status      LegStatus
	FilledCount int64
	Err         error
}

// OutcomeClass is the aggregate classification across all legs.
type OutcomeClass string

const (
	AllFilled   OutcomeClass = "all_filled"
	AllRejected OutcomeClass = "all_rejected"
	Mixed       OutcomeClass = "mixed"
)

// Outcome is the joined result of executing every leg of one opportunity.
type Outcome struct {
	Opportunity        *arbitrage.Opportunity
	Class              OutcomeClass
	Legs               []LegResult
	WorstCaseLossCents int64
	ExecutedAt         time.Time
}

// Config holds engine dependencies.
type Config struct {
	Client       OrderClient
	Ledger       *risk.Ledger
	Notifier     risk.Notifier
	LegTimeout   time.Duration
	PollInterval time.Duration
	Logger       *zap.Logger
}

// Engine submits all legs concurrently, joins them under a bounded timeout,
// and commits exactly one atomic ledger mutation per opportunity.
type Engine struct {
	client       OrderClient
	ledger       *risk.Ledger
	notifier     risk.Notifier
	legTimeout   time.Duration
	pollInterval time.Duration
	logger       *zap.Logger
}

// New creates a new execution engine.
func New(cfg Config) *Engine {
	legTimeout := cfg.LegTimeout
	if legTimeout == 0 {
		legTimeout = 5 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 200 * time.Millisecond
	}
	return &Engine{
		client:       cfg.Client,
		ledger:       cfg.Ledger,
		notifier:     cfg.Notifier,
		legTimeout:   legTimeout,
		pollInterval: pollInterval,
		logger:       cfg.Logger,
	}
}

// Execute places one limit order per leg and returns the classified outcome.
// Classification happens only after every leg has resolved or timed out:
// acting on a partial result set would misread legs still in flight.
func (e *Engine) Execute(ctx context.Context, opp *arbitrage.Opportunity) (*Outcome, error) {
	start := time.Now()
	e.logger.Info("executing-opportunity",
		zap.String("opportunity-id", opp.ID),
		zap.String("event-ticker", opp.EventTicker),
		zap.String("direction", string(opp.Direction)),
		zap.Int("legs", len(opp.Legs)))

	results := make([]LegResult, len(opp.Legs))

	var wg sync.WaitGroup
	for i, leg := range opp.Legs {
		wg.Add(1)
		go func(i int, leg arbitrage.Leg) {
			defer wg.Done()
			results[i] = e.executeLeg(ctx, opp.Direction, leg)
		}(i, leg)
	}
	wg.Wait()

	outcome := &Outcome{
		Opportunity: opp,
		Legs:        results,
		ExecutedAt:  start,
	}
	outcome.Class = classify(results)

	if outcome.Class == Mixed {
		e.compensate(ctx, outcome)
		outcome.Class = classify(outcome.Legs)
		if outcome.Class == Mixed {
			outcome.WorstCaseLossCents = worstCaseLoss(opp.Direction, outcome.Legs)
		}
	}

	e.commit(outcome)
	e.alert(ctx, outcome)

	for _, r := range outcome.Legs {
		LegResultsTotal.WithLabelValues(string(r.Status)).Inc()
	}
	ExecutionsTotal.WithLabelValues(string(outcome.Class)).Inc()
	ExecutionDurationSeconds.Observe(time.Since(start).Seconds())

	e.logger.Info("execution-complete",
		zap.String("opportunity-id", opp.ID),
		zap.String("class", string(outcome.Class)),
		zap.Int64("worst-case-loss-cents", outcome.WorstCaseLossCents))

	return outcome, nil
}

// executeLeg submits one limit order and polls it to a terminal state within
// the leg timeout.
func (e *Engine) executeLeg(ctx context.Context, direction arbitrage.Direction, leg arbitrage.Leg) LegResult {
	legCtx, cancel := context.WithTimeout(ctx, e.legTimeout)
	defer cancel()

	action := types.ActionBuy
	if direction == arbitrage.DirectionShort {
		action = types.ActionSell
	}

	req := types.OrderRequest{
		Ticker:        leg.MarketTicker,
		ClientOrderID: uuid.New().String(),
		Side:          types.SideYes,
		Action:        action,
		Type:          types.OrderTypeLimit,
		Count:         leg.Count,
		YesPriceCents: leg.PriceCents,
	}

	order, err := e.client.CreateOrder(legCtx, req)
	if err != nil {
		var venueErr *types.VenueError
		if errors.As(err, &venueErr) {
			e.logger.Warn("leg-rejected",
				zap.String("ticker", leg.MarketTicker),
				zap.Error(err))
			return LegResult{Leg: leg, Status: LegRejected, Err: err}
		}
		e.logger.Error("leg-submission-unresolved",
			zap.String("ticker", leg.MarketTicker),
			zap.Error(err))
		return LegResult{Leg: leg, Status: LegError, Err: err}
	}

	return e.pollLeg(legCtx, leg, order)
}

// pollLeg tracks an accepted order until it executes, is canceled, or the
// leg timeout expires.
func (e *Engine) pollLeg(ctx context.Context, leg arbitrage.Leg, order *types.Order) LegResult {
	current := order
	for {
		switch current.Status {
		case types.OrderStatusExecuted:
			return LegResult{Leg: leg, OrderID: current.OrderID, Status: LegFilled, FilledCount: current.FilledCount()}
		case types.OrderStatusCanceled:
			return legResultFromFill(leg, current)
		}

		select {
		case <-ctx.Done():
			return legResultFromFill(leg, current)
		case <-time.After(e.pollInterval):
		}

		refreshed, err := e.client.GetOrder(ctx, current.OrderID)
		if err != nil {
			if ctx.Err() != nil {
				return legResultFromFill(leg, current)
			}
			return LegResult{Leg: leg, OrderID: current.OrderID, Status: LegError, FilledCount: current.FilledCount(), Err: err}
		}
		current = refreshed
	}
}

// legResultFromFill classifies a non-executed order by how much of it
// matched before it stopped.
func legResultFromFill(leg arbitrage.Leg, order *types.Order) LegResult {
	filled := order.FilledCount()
	switch {
	case filled >= order.Count:
		return LegResult{Leg: leg, OrderID: order.OrderID, Status: LegFilled, FilledCount: filled}
	case filled > 0:
		return LegResult{Leg: leg, OrderID: order.OrderID, Status: LegPartiallyFilled, FilledCount: filled}
	case order.Status == types.OrderStatusCanceled:
		return LegResult{Leg: leg, OrderID: order.OrderID, Status: LegRejected}
	default:
		return LegResult{Leg: leg, OrderID: order.OrderID, Status: LegResting}
	}
}

// classify reduces leg results to the aggregate outcome class.
func classify(results []LegResult) OutcomeClass {
	filled, rejected := 0, 0
	for _, r := range results {
		switch r.Status {
		case LegFilled:
			filled++
		case LegRejected:
			rejected++
		}
	}
	switch {
	case filled == len(results):
		return AllFilled
	case rejected == len(results):
		return AllRejected
	default:
		return Mixed
	}
}

// compensate cancels every leg that is not fully filled or cleanly rejected,
// then re-polls the canceled orders once. A cancel can race a fill at the
// venue, so the post-cancel state is authoritative for the loss bound.
func (e *Engine) compensate(ctx context.Context, outcome *Outcome) {
	for i := range outcome.Legs {
		r := &outcome.Legs[i]
		if r.Status == LegFilled || r.Status == LegRejected {
			continue
		}
		if r.OrderID == "" {
			// Submission itself failed; nothing addressable to cancel.
			continue
		}

		cancelCtx, cancel := context.WithTimeout(ctx, e.legTimeout)
		_, err := e.client.CancelOrder(cancelCtx, r.OrderID)
		cancel()
		CancelsTotal.Inc()
		if err != nil {
			e.logger.Error("compensating-cancel-failed",
				zap.String("order-id", r.OrderID),
				zap.String("ticker", r.Leg.MarketTicker),
				zap.Error(err))
			continue
		}

		pollCtx, cancel := context.WithTimeout(ctx, e.legTimeout)
		refreshed, err := e.client.GetOrder(pollCtx, r.OrderID)
		cancel()
		if err != nil {
			e.logger.Error("post-cancel-poll-failed",
				zap.String("order-id", r.OrderID),
				zap.Error(err))
			continue
		}
		*r = legResultFromFill(r.Leg, refreshed)
	}
}

// worstCaseLoss bounds the damage of a mixed outcome by the capital committed
// to filled contracts: a long fill can go to zero, a short fill to par. A leg
// in the error state has an unknown fill, so it counts as fully filled until
// reconciliation learns otherwise.
func worstCaseLoss(direction arbitrage.Direction, results []LegResult) int64 {
	var loss int64
	for _, r := range results {
		filled := r.FilledCount
		if r.Status == LegError && filled < r.Leg.Count {
			filled = r.Leg.Count
		}
		if filled == 0 {
			continue
		}
		if direction == arbitrage.DirectionLong {
			loss += r.Leg.PriceCents * filled
		} else {
			loss += (100 - r.Leg.PriceCents) * filled
		}
	}
	return loss
}

// commit writes the outcome to the ledger as one atomic mutation. Mixed
// outcomes record the pessimistic bound immediately; only a later
// reconciliation may shrink it.
func (e *Engine) commit(outcome *Outcome) {
	commit := risk.ExecutionCommit{Orders: len(outcome.Legs)}

	switch outcome.Class {
	case AllFilled:
		// Every leg hedged: the position is opened and immediately settled
		// for this cycle's accounting, so the open count moves by zero net.
	case Mixed:
		commit.OpenDelta = 1
		commit.WorstCaseLossCents = outcome.WorstCaseLossCents
	case AllRejected:
		// Orders were submitted and count against the daily budget, but no
		// position opened and no capital is at risk.
	}

	e.ledger.CommitExecution(commit)
}

func (e *Engine) alert(ctx context.Context, outcome *Outcome) {
	if e.notifier == nil {
		return
	}

	allErrors := true
	for _, r := range outcome.Legs {
		if r.Status != LegError {
			allErrors = false
			break
		}
	}

	var msg string
	switch {
	case allErrors:
		msg = "execution total failure: every leg unresolved for " + outcome.Opportunity.EventTicker
	case outcome.Class == Mixed:
		msg = "mixed execution outcome for " + outcome.Opportunity.EventTicker + ": " + outcome.Opportunity.String()
	default:
		return
	}

	if err := e.notifier.Send(ctx, msg); err != nil {
		e.logger.Error("execution-alert-failed", zap.Error(err))
	}
}
