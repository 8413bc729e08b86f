package product

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/domain"
	"shopfront/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestPostgres_CreateListGet(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)
	seller := testutil.InsertUser(t, pool, "seller@example.com", "seller")

	repo := NewPostgres(pool, nil)
	lamp, err := repo.Create(ctx, domain.Product{
		Name:        "Lamp",
		Description: "desk lamp",
		Price:       decimal.RequireFromString("19.99"),
		Stock:       3,
		SellerID:    seller,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lamp.ID == "" || lamp.Price.StringFixed(2) != "19.99" || lamp.SellerID != seller {
		t.Fatalf("unexpected product %+v", lamp)
	}
	if _, err := repo.Create(ctx, domain.Product{Name: "Free", SellerID: seller}); err != nil {
		t.Fatalf("Create zero price: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != lamp.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	got, err := repo.GetByID(ctx, lamp.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Lamp" || got.Stock != 3 {
		t.Fatalf("unexpected product %+v", got)
	}
}

func TestPostgres_GetMissing(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)
	repo := NewPostgres(pool, nil)

	for _, id := range []string{"00000000-0000-0000-0000-000000000001", "not-a-uuid"} {
		if _, err := repo.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetByID(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestPostgres_RejectsNegativeStock(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)
	seller := testutil.InsertUser(t, pool, "seller@example.com", "seller")

	repo := NewPostgres(pool, nil)
	if _, err := repo.Create(ctx, domain.Product{Name: "Bad", Stock: -1, SellerID: seller}); err == nil {
		t.Fatalf("expected check constraint violation")
	}
}
