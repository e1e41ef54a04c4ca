package types

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// PriceLevel is one resting level on the wire, encoded as a [price, quantity]
// tuple of integer cents and contracts.
type PriceLevel struct {
	PriceCents int64
	Quantity   int64
}

// UnmarshalJSON decodes the venue's two-element tuple encoding.
func (l *PriceLevel) UnmarshalJSON(data []byte) error {
	var tuple []int64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("decode price level: %w", err)
	}
	if len(tuple) != 2 {
		return fmt.Errorf("price level has %d elements, want 2", len(tuple))
	}
	l.PriceCents = tuple[0]
	l.Quantity = tuple[1]
	return nil
}

// MarshalJSON encodes back to the tuple form.
func (l PriceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{l.PriceCents, l.Quantity})
}

// Orderbook is the venue's raw book for one bracket. Both sides hold resting
// BIDS: Yes holds bids for YES contracts, No holds bids for NO contracts.
// Either side may be null or absent when empty.
type Orderbook struct {
	Yes []PriceLevel `json:"yes"`
	No  []PriceLevel `json:"no"`
}

// Level is one side entry of a normalized book, all YES-denominated.
type Level struct {
	PriceCents int64
	Quantity   int64
}

// Book is the normalized YES-side view of a bracket: Bids are prices at which
// YES can be sold, Asks are prices at which YES can be bought. Levels carry no
// ordering guarantee and duplicate prices may appear.
type Book struct {
	MarketTicker string
	Bids         []Level
	Asks         []Level
}

// Normalize converts the raw two-sided book into a YES-denominated Book.
// A resting NO bid at price p is willingness to sell YES at 100-p, so each NO
// level becomes a YES ask at the complementary price.
func (ob *Orderbook) Normalize(marketTicker string) Book {
	book := Book{MarketTicker: marketTicker}

	for _, l := range ob.Yes {
		book.Bids = append(book.Bids, Level{PriceCents: l.PriceCents, Quantity: l.Quantity})
	}
	for _, l := range ob.No {
		book.Asks = append(book.Asks, Level{PriceCents: 100 - l.PriceCents, Quantity: l.Quantity})
	}

	return book
}
