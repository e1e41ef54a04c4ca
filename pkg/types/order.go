package types

import "time"

// Order action and side values accepted by the venue.
const (
	SideYes = "yes"
	SideNo  = "no"

	ActionBuy  = "buy"
	ActionSell = "sell"

	OrderTypeLimit = "limit"
)

// Order status values returned by the venue.
const (
	OrderStatusResting  = "resting"
	OrderStatusExecuted = "executed"
	OrderStatusCanceled = "canceled"
	OrderStatusPending  = "pending"
)

// OrderRequest is a limit order submission for one bracket.
type OrderRequest struct {
	Ticker        string `json:"ticker"`
	ClientOrderID string `json:"client_order_id"`
	Side          string `json:"side"`
	Action        string `json:"action"`
	Type          string `json:"type"`
	Count         int64  `json:"count"`
	YesPriceCents int64  `json:"yes_price,omitempty"`
	NoPriceCents  int64  `json:"no_price,omitempty"`
}

// Order is the venue's view of a submitted order.
type Order struct {
	OrderID        string    `json:"order_id"`
	ClientOrderID  string    `json:"client_order_id"`
	Ticker         string    `json:"ticker"`
	Side           string    `json:"side"`
	Action         string    `json:"action"`
	Status         string    `json:"status"`
	Count          int64     `json:"count"`
	RemainingCount int64     `json:"remaining_count"`
	YesPriceCents  int64     `json:"yes_price"`
	NoPriceCents   int64     `json:"no_price"`
	CreatedTime    time.Time `json:"created_time"`
}

// FilledCount returns how many contracts of the order have matched.
func (o *Order) FilledCount() int64 {
	return o.Count - o.RemainingCount
}
