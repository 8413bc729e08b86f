package order

import (
	"context"

	"shopfront/internal/domain"

	"github.com/shopspring/decimal"
)

// Tx is the unit of work a checkout runs in. Everything done through it
// commits or rolls back together.
type Tx interface {
	// LockUser serializes concurrent checkouts for one user until the
	// transaction ends.
	LockUser(ctx context.Context, userID string) error
	CartItems(ctx context.Context, userID string) ([]domain.CartItem, error)
	ProductPrices(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error)
	CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)
	ClearCart(ctx context.Context, userID string) (int64, error)
}

type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
