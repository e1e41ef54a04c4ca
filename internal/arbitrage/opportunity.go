package arbitrage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goldbar123467/arb-bot/internal/fees"
)

// Direction distinguishes the two sides of a bracket mispricing.
type Direction string

const (
	// DirectionLong buys every bracket: profitable when the asks sum below 100c.
	DirectionLong Direction = "long"
	// DirectionShort sells every bracket: profitable when the bids sum above 100c.
	DirectionShort Direction = "short"
)

// Leg is the order to place against one bracket of the event.
type Leg struct {
	MarketTicker string
	PriceCents   int64 // limit price: ask for long, bid for short
	Count        int64
	Available    int64 // quantity resting at PriceCents when detected
}

// Opportunity is a detected Dutch book across every bracket of one event.
// It is a snapshot value: valid for the scan cycle that produced it and
// discarded afterwards, never carried across cycles.
type Opportunity struct {
	ID               string
	EventTicker      string
	EventTitle       string
	Direction        Direction
	Legs             []Leg
	Contracts        int64
	SumPriceCents    int64 // per-contract price sum across all legs
	GrossEdgeCents   int64 // per contract set, before fees
	GrossProfitCents int64
	TotalFeeCents    int64
	NetProfitCents   int64
	ROIBps           int64 // net profit over capital at risk, basis points
	DepthContracts   int64 // minimum quantity available across legs
	DetectedAt       time.Time
}

// NewOpportunity computes the full economics for a candidate. Fees are charged
// per leg at each leg's own price: the fee curve is convex in price, so a fee
// on the summed notional would understate the true cost.
func NewOpportunity(eventTicker, eventTitle string, direction Direction, legs []Leg, contracts int64) (*Opportunity, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("opportunity requires at least one leg")
	}

	var sum, totalFees int64
	depth := legs[0].Available

	for i := range legs {
		legs[i].Count = contracts
		sum += legs[i].PriceCents

		fee, err := fees.TakerFeeCents(contracts, legs[i].PriceCents)
		if err != nil {
			return nil, fmt.Errorf("fee for leg %s: %w", legs[i].MarketTicker, err)
		}
		totalFees += fee

		if legs[i].Available < depth {
			depth = legs[i].Available
		}
	}

	var edge int64
	switch direction {
	case DirectionLong:
		edge = 100 - sum
	case DirectionShort:
		edge = sum - 100
	default:
		return nil, fmt.Errorf("unknown direction %q", direction)
	}

	gross := edge * contracts
	net := gross - totalFees

	return &Opportunity{
		ID:               uuid.New().String(),
		EventTicker:      eventTicker,
		EventTitle:       eventTitle,
		Direction:        direction,
		Legs:             legs,
		Contracts:        contracts,
		SumPriceCents:    sum,
		GrossEdgeCents:   edge,
		GrossProfitCents: gross,
		TotalFeeCents:    totalFees,
		NetProfitCents:   net,
		ROIBps:           net * 10_000 / (contracts * 100),
		DepthContracts:   depth,
		DetectedAt:       time.Now(),
	}, nil
}

// String returns a human-readable one-liner for logs and alerts.
func (o *Opportunity) String() string {
	return fmt.Sprintf(
		"Opportunity[%s] Event=%s Dir=%s Legs=%d Sum=%dc Edge=%dc Net=%dc ROI=%dbps Depth=%d",
		o.ID[:8],
		o.EventTicker,
		o.Direction,
		len(o.Legs),
		o.SumPriceCents,
		o.GrossEdgeCents,
		o.NetProfitCents,
		o.ROIBps,
		o.DepthContracts,
	)
}
