// Package risk enforces process-wide trading limits: a halt state machine
// over daily counters plus the pre-trade gate that consults it.
package risk

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hard ceilings. These are deliberately compiled in rather than configured:
// an operator can tighten behavior through the gate floors, but the outer
// loss bounds are not overridable at runtime.
const (
	DailyLossCeilingCents = 500
	DailyOrderCeiling     = 50
	OpenPositionCeiling   = 5
)

// Notifier delivers operator alerts for halt transitions.
type Notifier interface {
	Send(ctx context.Context, msg string) error
}

// State is a point-in-time copy of the ledger.
type State struct {
	Halted                bool
	HaltReason            string
	OpenPositions         int
	DailyOrders           int
	DailyLossCents        int64 // worst-case exposure, reduced only by reconciliation
	DailyRealizedPnLCents int64
	Day                   time.Time
}

// ExecutionCommit is the atomic ledger mutation for one execution outcome.
type ExecutionCommit struct {
	Orders             int
	OpenDelta          int
	WorstCaseLossCents int64
	RealizedPnLCents   int64
}

// Correction is the reconciler's follow-up write. It is the only path that
// may carry a negative loss delta.
type Correction struct {
	LossDeltaCents   int64
	RealizedPnLCents int64
	ClosedPositions  int
}

// Ledger tracks exposure and halts trading when a ceiling is breached. A halt
// never clears on its own: day rollover resets the counters but the halt flag
// survives until an operator calls ClearHalt.
type Ledger struct {
	mu       sync.Mutex
	state    State
	logger   *zap.Logger
	notifier Notifier
	clock    func() time.Time
}

// Config holds ledger dependencies.
type Config struct {
	Logger   *zap.Logger
	Notifier Notifier
	Clock    func() time.Time
}

// NewLedger creates a ledger in the Normal state for the current day.
func NewLedger(cfg Config) *Ledger {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{
		state:    State{Day: clock().Truncate(24 * time.Hour)},
		logger:   cfg.Logger,
		notifier: cfg.Notifier,
		clock:    clock,
	}
}

// Snapshot returns the latest committed state. It rolls the day over first so
// a reader never sees yesterday's counters applied to today.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	return l.state
}

// CommitExecution applies one execution outcome as a single atomic mutation
// and then re-evaluates the ceilings.
func (l *Ledger) CommitExecution(commit ExecutionCommit) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()

	l.state.DailyOrders += commit.Orders
	l.state.OpenPositions += commit.OpenDelta
	l.state.DailyLossCents += commit.WorstCaseLossCents
	l.state.DailyRealizedPnLCents += commit.RealizedPnLCents

	l.checkCeilingsLocked()
	l.publishGaugesLocked()
	return l.state
}

// CommitCorrection applies a reconciliation result. A negative LossDeltaCents
// shrinks the pessimistic bound recorded at execution time.
func (l *Ledger) CommitCorrection(corr Correction) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()

	l.state.DailyLossCents += corr.LossDeltaCents
	if l.state.DailyLossCents < 0 {
		l.state.DailyLossCents = 0
	}
	l.state.DailyRealizedPnLCents += corr.RealizedPnLCents
	l.state.OpenPositions -= corr.ClosedPositions
	if l.state.OpenPositions < 0 {
		l.state.OpenPositions = 0
	}

	l.checkCeilingsLocked()
	l.publishGaugesLocked()
	return l.state
}

// ClearHalt returns the ledger to the Normal state. Operator action only.
func (l *Ledger) ClearHalt() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.Halted {
		return
	}
	l.logger.Info("risk-halt-cleared", zap.String("previous-reason", l.state.HaltReason))
	l.state.Halted = false
	l.state.HaltReason = ""
	l.publishGaugesLocked()
}

// ResetDay zeroes the daily counters without touching the halt flag.
func (l *Ledger) ResetDay() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetDayLocked(l.clock().Truncate(24 * time.Hour))
}

func (l *Ledger) rolloverLocked() {
	today := l.clock().Truncate(24 * time.Hour)
	if today.After(l.state.Day) {
		l.logger.Info("risk-day-rollover",
			zap.Time("previous-day", l.state.Day),
			zap.Int64("previous-loss-cents", l.state.DailyLossCents),
			zap.Int("previous-orders", l.state.DailyOrders))
		l.resetDayLocked(today)
	}
}

func (l *Ledger) resetDayLocked(day time.Time) {
	l.state.Day = day
	l.state.DailyOrders = 0
	l.state.DailyLossCents = 0
	l.state.DailyRealizedPnLCents = 0
	l.publishGaugesLocked()
}

func (l *Ledger) checkCeilingsLocked() {
	if l.state.Halted {
		return
	}

	// The loss ceiling binds on both accumulators: the pessimistic
	// worst-case bound and the realized loss left after corrections.
	var reason string
	switch {
	case l.state.DailyLossCents >= DailyLossCeilingCents,
		-l.state.DailyRealizedPnLCents >= DailyLossCeilingCents:
		reason = "daily-loss-ceiling"
	case l.state.DailyOrders >= DailyOrderCeiling:
		reason = "daily-order-ceiling"
	case l.state.OpenPositions > OpenPositionCeiling:
		reason = "open-position-ceiling"
	default:
		return
	}

	l.state.Halted = true
	l.state.HaltReason = reason
	HaltsTotal.WithLabelValues(reason).Inc()

	l.logger.Warn("risk-halt-triggered",
		zap.String("reason", reason),
		zap.Int64("daily-loss-cents", l.state.DailyLossCents),
		zap.Int64("daily-realized-pnl-cents", l.state.DailyRealizedPnLCents),
		zap.Int("daily-orders", l.state.DailyOrders),
		zap.Int("open-positions", l.state.OpenPositions))

	if l.notifier != nil {
		go func(reason string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := l.notifier.Send(ctx, "trading halted: "+reason); err != nil {
				l.logger.Error("halt-alert-failed", zap.Error(err))
			}
		}(reason)
	}
}

func (l *Ledger) publishGaugesLocked() {
	OpenPositionsGauge.Set(float64(l.state.OpenPositions))
	DailyOrdersGauge.Set(float64(l.state.DailyOrders))
	DailyLossCentsGauge.Set(float64(l.state.DailyLossCents))
	if l.state.Halted {
		HaltedGauge.Set(1)
	} else {
		HaltedGauge.Set(0)
	}
}
