package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"shopfront/internal/db"
	"shopfront/internal/domain"
	cartrepo "shopfront/internal/repository/cart"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const orderColumns = `id::text, user_id::text, total_amount::text, status, created_at`

type postgresRepo struct {
	pool   db.Pool
	logger *log.Logger
}

func NewPostgres(pool db.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		r.logger.Printf("order repo: commit error=%v", err)
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockUser(ctx context.Context, userID string) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID)
	return err
}

func (t *pgTx) CartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return cartrepo.ListItems(ctx, t.tx, userID)
}

func (t *pgTx) ProductPrices(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return prices, nil
	}
	rows, err := t.tx.Query(ctx, `
SELECT id::text, price::text
FROM products
WHERE id = ANY($1::uuid[])
`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse price for product %s: %w", id, err)
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

func (t *pgTx) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	q := `
INSERT INTO orders (user_id, total_amount, status)
VALUES ($1, $2::numeric, $3)
RETURNING ` + orderColumns
	return scanOrder(t.tx.QueryRow(ctx, q, o.UserID, o.TotalAmount.String(), string(o.Status)))
}

func (t *pgTx) ClearCart(ctx context.Context, userID string) (int64, error) {
	cmd, err := t.tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var total, status string
	if err := row.Scan(&o.ID, &o.UserID, &total, &status, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total for order %s: %w", o.ID, err)
	}
	o.TotalAmount = amount
	o.Status = domain.OrderStatus(status)
	if !o.Status.Valid() {
		return nil, fmt.Errorf("order %s has unknown status %q", o.ID, status)
	}
	return &o, nil
}
