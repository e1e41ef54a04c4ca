// Package quote reduces normalized orderbooks to best-bid/best-ask quotes.
package quote

import (
	"github.com/goldbar123467/arb-bot/pkg/types"
)

// Quote is the top of book for one bracket. Either side is nil when the book
// has no resting liquidity on that side.
type Quote struct {
	MarketTicker string
	BestBid      *types.Level
	BestAsk      *types.Level
}

// Extract computes the best bid (highest price) and best ask (lowest price)
// from an unordered book. Depth at the chosen price aggregates duplicate
// levels, so a side quoting [30x10, 30x15] reports 25 available at 30.
//
// A level with a price outside 1..99 or a non-positive quantity fails the
// whole extraction; the caller skips that bracket only.
func Extract(book types.Book) (Quote, error) {
	q := Quote{MarketTicker: book.MarketTicker}

	for _, l := range book.Bids {
		if err := validateLevel(l); err != nil {
			MalformedLevelsTotal.Inc()
			return Quote{}, err
		}
		switch {
		case q.BestBid == nil || l.PriceCents > q.BestBid.PriceCents:
			q.BestBid = &types.Level{PriceCents: l.PriceCents, Quantity: l.Quantity}
		case l.PriceCents == q.BestBid.PriceCents:
			q.BestBid.Quantity += l.Quantity
		}
	}

	for _, l := range book.Asks {
		if err := validateLevel(l); err != nil {
			MalformedLevelsTotal.Inc()
			return Quote{}, err
		}
		switch {
		case q.BestAsk == nil || l.PriceCents < q.BestAsk.PriceCents:
			q.BestAsk = &types.Level{PriceCents: l.PriceCents, Quantity: l.Quantity}
		case l.PriceCents == q.BestAsk.PriceCents:
			q.BestAsk.Quantity += l.Quantity
		}
	}

	ExtractionsTotal.Inc()
	return q, nil
}

func validateLevel(l types.Level) error {
	if l.PriceCents < 1 || l.PriceCents > 99 {
		return &types.ContractViolation{Field: "level price", Reason: "must be in 1..99 cents"}
	}
	if l.Quantity <= 0 {
		return &types.ContractViolation{Field: "level quantity", Reason: "must be positive"}
	}
	return nil
}
