// Package testutil provides scripted venue doubles shared across test suites.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/goldbar123467/arb-bot/pkg/types"
)

// OrderScript controls how the mock venue treats orders for one market.
type OrderScript struct {
	CreateErr       error  // transport failure on submission
	RejectCode      string // venue-level rejection on submission
	Status          string // order status after submission, default executed
	FillCount       int64  // contracts filled immediately, default full for executed
	GetErr          error  // transport failure on status polls
	CancelErr       error  // transport failure on cancel
	CancelFillCount int64  // extra contracts that match while the cancel races in
}

// MockOrderClient is a scripted implementation of the engine's order surface.
type MockOrderClient struct {
	mu       sync.Mutex
	scripts  map[string]OrderScript
	orders   map[string]*types.Order
	tickers  map[string]string // order id -> market ticker
	seq      int
	Created  []types.OrderRequest
	Canceled []string
}

// NewMockOrderClient creates an empty mock. Markets without a script fill
// completely on submission.
func NewMockOrderClient() *MockOrderClient {
	return &MockOrderClient{
		scripts: make(map[string]OrderScript),
		orders:  make(map[string]*types.Order),
		tickers: make(map[string]string),
	}
}

// Script installs behavior for one market ticker.
func (m *MockOrderClient) Script(ticker string, s OrderScript) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[ticker] = s
}

// CreateOrder implements execution.OrderClient.
func (m *MockOrderClient) CreateOrder(_ context.Context, req types.OrderRequest) (*types.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Created = append(m.Created, req)

	script := m.scripts[req.Ticker]
	if script.CreateErr != nil {
		return nil, script.CreateErr
	}
	if script.RejectCode != "" {
		return nil, &types.VenueError{StatusCode: 400, Code: script.RejectCode, Message: "order rejected"}
	}

	status := script.Status
	if status == "" {
		status = types.OrderStatusExecuted
	}
	filled := script.FillCount
	if status == types.OrderStatusExecuted && filled == 0 {
		filled = req.Count
	}

	m.seq++
	order := &types.Order{
		OrderID:        fmt.Sprintf("order-%d", m.seq),
		ClientOrderID:  req.ClientOrderID,
		Ticker:         req.Ticker,
		Side:           req.Side,
		Action:         req.Action,
		Status:         status,
		Count:          req.Count,
		RemainingCount: req.Count - filled,
		YesPriceCents:  req.YesPriceCents,
	}
	m.orders[order.OrderID] = order
	m.tickers[order.OrderID] = req.Ticker

	copied := *order
	return &copied, nil
}

// GetOrder implements execution.OrderClient.
func (m *MockOrderClient) GetOrder(_ context.Context, orderID string) (*types.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("unknown order %s", orderID)
	}
	if script := m.scripts[m.tickers[orderID]]; script.GetErr != nil {
		return nil, script.GetErr
	}

	copied := *order
	return &copied, nil
}

// CancelOrder implements execution.OrderClient.
func (m *MockOrderClient) CancelOrder(_ context.Context, orderID string) (*types.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Canceled = append(m.Canceled, orderID)

	order, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("unknown order %s", orderID)
	}
	script := m.scripts[m.tickers[orderID]]
	if script.CancelErr != nil {
		return nil, script.CancelErr
	}

	// Simulate a cancel racing an in-flight match.
	if script.CancelFillCount > 0 {
		order.RemainingCount -= script.CancelFillCount
		if order.RemainingCount < 0 {
			order.RemainingCount = 0
		}
	}
	if order.Status != types.OrderStatusExecuted {
		order.Status = types.OrderStatusCanceled
	}

	copied := *order
	return &copied, nil
}

// ResolveOrder rewrites a stored order's state, used to script recoveries
// that happen between execution and reconciliation.
func (m *MockOrderClient) ResolveOrder(orderID, status string, filled int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order, ok := m.orders[orderID]; ok {
		order.Status = status
		order.RemainingCount = order.Count - filled
	}
}

// ClearScript removes the script for a ticker, restoring default behavior.
func (m *MockOrderClient) ClearScript(ticker string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scripts, ticker)
}
