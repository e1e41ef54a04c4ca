package execution

import (
	"context"

	"github.com/goldbar123467/arb-bot/pkg/types"
)

// OrderClient is the venue order surface the engine drives. Implemented by
// the kalshi client; tests substitute a scripted mock.
type OrderClient interface {
	CreateOrder(ctx context.Context, req types.OrderRequest) (*types.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*types.Order, error)
	GetOrder(ctx context.Context, orderID string) (*types.Order, error)
}
