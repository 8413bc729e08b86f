package order

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/domain"
	"shopfront/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_CheckoutUnitOfWork(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)
	seller := testutil.InsertUser(t, pool, "seller@example.com", "seller")
	buyer := testutil.InsertUser(t, pool, "buyer@example.com", "buyer")

	var productID string
	require.NoError(t, pool.QueryRow(ctx, `
INSERT INTO products (name, price, stock, seller_id) VALUES ('Lamp', 19.99, 5, $1) RETURNING id::text
`, seller).Scan(&productID))
	_, err := pool.Exec(ctx, `
INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 2), ($1, $2, 3)
`, buyer, productID)
	require.NoError(t, err)

	repo := NewPostgres(pool, nil)

	// a failing unit of work leaves the cart intact
	boom := errors.New("boom")
	err = repo.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.ClearCart(ctx, buyer); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var placed *domain.Order
	err = repo.WithinTx(ctx, func(tx Tx) error {
		require.NoError(t, tx.LockUser(ctx, buyer))
		items, err := tx.CartItems(ctx, buyer)
		require.NoError(t, err)
		require.Len(t, items, 2)

		prices, err := tx.ProductPrices(ctx, []string{productID})
		require.NoError(t, err)
		assert.Equal(t, "19.99", prices[productID].StringFixed(2))

		placed, err = tx.CreateOrder(ctx, domain.Order{
			UserID:      buyer,
			TotalAmount: decimal.NewFromInt(500),
			Status:      domain.OrderStatusPending,
		})
		if err != nil {
			return err
		}
		n, err := tx.ClearCart(ctx, buyer)
		assert.EqualValues(t, 2, n)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, placed)
	assert.Equal(t, "500.00", placed.TotalAmount.StringFixed(2))

	var remaining int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM cart_items WHERE user_id = $1`, buyer).Scan(&remaining))
	assert.Zero(t, remaining)

	orders, err := repo.ListByUser(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
}
