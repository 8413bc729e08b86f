package cart

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/domain"
	"shopfront/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, sellerID string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, description, price, stock, seller_id)
VALUES ('Prod', 'desc', 10, 5, $1)
RETURNING id::text
`, sellerID).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func TestPostgres_AddAndList(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)
	seller := testutil.InsertUser(t, pool, "seller@example.com", "seller")
	buyer := testutil.InsertUser(t, pool, "buyer@example.com", "buyer")
	productID := insertProduct(ctx, t, pool, seller)

	repo := NewPostgres(pool)
	first, err := repo.AddItem(ctx, AddItemInput{UserID: buyer, ProductID: productID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if first.Quantity != 2 || first.UserID != buyer {
		t.Fatalf("unexpected item %+v", first)
	}
	if _, err := repo.AddItem(ctx, AddItemInput{UserID: buyer, ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem again: %v", err)
	}

	items, err := repo.ListByUser(ctx, buyer)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected repeated adds to be separate rows, got %d", len(items))
	}
	if items[0].ID != first.ID {
		t.Fatalf("expected insertion order, got %+v", items)
	}

	other, err := repo.ListByUser(ctx, seller)
	if err != nil {
		t.Fatalf("ListByUser seller: %v", err)
	}
	if other == nil || len(other) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", other)
	}
}

func TestPostgres_AddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)
	buyer := testutil.InsertUser(t, pool, "buyer@example.com", "buyer")

	repo := NewPostgres(pool)
	_, err := repo.AddItem(ctx, AddItemInput{
		UserID:    buyer,
		ProductID: "00000000-0000-0000-0000-000000000001",
		Quantity:  1,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
