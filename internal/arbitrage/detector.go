// Package arbitrage detects Dutch-book mispricing across the brackets of a
// mutually-exclusive event.
package arbitrage

import (
	"time"

	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/quote"
	"github.com/goldbar123467/arb-bot/pkg/types"
)

// Config holds detector configuration.
type Config struct {
	MinBrackets int
	MaxBrackets int
	Contracts   int64
	Logger      *zap.Logger
}

// Detector evaluates one event per call and emits candidate opportunities.
// It verifies the mechanical mispricing only; profitability floors and risk
// limits are the gate's decision.
type Detector struct {
	config Config
	logger *zap.Logger
}

// New creates a new bracket arbitrage detector.
func New(cfg Config) *Detector {
	return &Detector{
		config: cfg,
		logger: cfg.Logger,
	}
}

// Detect evaluates the long and short sides independently and returns zero,
// one, or two candidates. Quotes must cover every active bracket of the
// event; their order does not matter.
//
// An event whose bracket count falls outside the configured bounds is not an
// error, it is simply not an arbitrage surface. In particular a one-bracket
// event always sums below par on the ask side without any mispricing.
func (d *Detector) Detect(event *types.Event, quotes []quote.Quote) []*Opportunity {
	start := time.Now()
	defer func() {
		DetectionDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if len(quotes) < d.config.MinBrackets || len(quotes) > d.config.MaxBrackets {
		d.logger.Debug("event-bracket-count-out-of-bounds",
			zap.String("event-ticker", event.Ticker),
			zap.Int("brackets", len(quotes)))
		EventsSkippedTotal.WithLabelValues("bracket_count").Inc()
		return nil
	}

	var candidates []*Opportunity

	if opp := d.detectSide(event, quotes, DirectionLong); opp != nil {
		candidates = append(candidates, opp)
	}
	if opp := d.detectSide(event, quotes, DirectionShort); opp != nil {
		candidates = append(candidates, opp)
	}

	return candidates
}

// detectSide checks one direction. Long needs an ask on every bracket and a
// price sum below 100c; short needs a bid on every bracket and a sum above.
func (d *Detector) detectSide(event *types.Event, quotes []quote.Quote, direction Direction) *Opportunity {
	legs := make([]Leg, 0, len(quotes))

	for _, q := range quotes {
		level := q.BestAsk
		if direction == DirectionShort {
			level = q.BestBid
		}
		if level == nil {
			EventsSkippedTotal.WithLabelValues("missing_side").Inc()
			return nil
		}
		legs = append(legs, Leg{
			MarketTicker: q.MarketTicker,
			PriceCents:   level.PriceCents,
			Available:    level.Quantity,
		})
	}

	opp, err := NewOpportunity(event.Ticker, event.Title, direction, legs, d.config.Contracts)
	if err != nil {
		d.logger.Warn("opportunity-construction-failed",
			zap.String("event-ticker", event.Ticker),
			zap.String("direction", string(direction)),
			zap.Error(err))
		return nil
	}

	if opp.GrossEdgeCents <= 0 {
		EventsSkippedTotal.WithLabelValues("no_edge").Inc()
		return nil
	}

	OpportunitiesDetectedTotal.WithLabelValues(string(direction)).Inc()
	GrossEdgeCents.Observe(float64(opp.GrossEdgeCents))
	NetProfitCents.Observe(float64(opp.NetProfitCents))

	d.logger.Info("bracket-mispricing-detected",
		zap.String("opportunity-id", opp.ID),
		zap.String("event-ticker", event.Ticker),
		zap.String("direction", string(direction)),
		zap.Int64("sum-cents", opp.SumPriceCents),
		zap.Int64("gross-edge-cents", opp.GrossEdgeCents),
		zap.Int64("net-profit-cents", opp.NetProfitCents),
		zap.Int64("depth-contracts", opp.DepthContracts))

	return opp
}
