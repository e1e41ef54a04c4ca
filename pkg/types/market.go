package types

import "time"

// Series groups related events on the venue, e.g. "daily high temperature in NYC".
type Series struct {
	Ticker   string `json:"ticker"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Event is a set of bracket markets settling against the same underlying value.
// When MutuallyExclusive is true exactly one bracket resolves YES, which is the
// precondition for bracket arbitrage against 100c par.
type Event struct {
	Ticker            string   `json:"event_ticker"`
	SeriesTicker      string   `json:"series_ticker"`
	Title             string   `json:"title"`
	MutuallyExclusive bool     `json:"mutually_exclusive"`
	Markets           []Market `json:"markets"`
}

// Market is a single bracket: a binary contract on one outcome range.
type Market struct {
	Ticker      string    `json:"ticker"`
	EventTicker string    `json:"event_ticker"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"yes_sub_title"`
	Status      string    `json:"status"`
	CloseTime   time.Time `json:"close_time"`
}

// Market status values returned by the venue.
const (
	MarketStatusActive  = "active"
	MarketStatusClosed  = "closed"
	MarketStatusSettled = "settled"
)

// ActiveBrackets returns the subset of markets currently open for trading.
func (e *Event) ActiveBrackets() []Market {
	active := make([]Market, 0, len(e.Markets))
	for _, m := range e.Markets {
		if m.Status == MarketStatusActive {
			active = append(active, m)
		}
	}
	return active
}
