package testutil

import (
	"fmt"

	"github.com/goldbar123467/arb-bot/pkg/types"
)

// BracketEvent builds a mutually-exclusive event with n active brackets
// named <ticker>-B1..Bn.
func BracketEvent(ticker string, n int) *types.Event {
	event := &types.Event{
		Ticker:            ticker,
		SeriesTicker:      "KXHIGHNY",
		Title:             "test bracket event",
		MutuallyExclusive: true,
	}
	for i := 1; i <= n; i++ {
		event.Markets = append(event.Markets, types.Market{
			Ticker:      fmt.Sprintf("%s-B%d", ticker, i),
			EventTicker: ticker,
			Status:      types.MarketStatusActive,
		})
	}
	return event
}

// OrderbookWithTopOfBook builds a raw venue book whose normalized best bid
// and best ask land at the given prices. Pass zero cents to leave a side
// empty. Asks are expressed the way the venue does, as NO bids at the
// complementary price.
func OrderbookWithTopOfBook(bidCents, bidQty, askCents, askQty int64) types.Orderbook {
	var ob types.Orderbook
	if bidCents > 0 {
		ob.Yes = []types.PriceLevel{{PriceCents: bidCents, Quantity: bidQty}}
	}
	if askCents > 0 {
		ob.No = []types.PriceLevel{{PriceCents: 100 - askCents, Quantity: askQty}}
	}
	return ob
}
