package cart

import (
	"context"

	"shopfront/internal/domain"
)

type AddItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
}

type Repository interface {
	AddItem(ctx context.Context, in AddItemInput) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
}
