package cart

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"shopfront/internal/domain"
	cartrepo "shopfront/internal/repository/cart"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
	logger      *log.Logger
}

type cartRepo interface {
	AddItem(ctx context.Context, in cartrepo.AddItemInput) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, productRepo: productRepo, logger: logger}
}

// AddInput is the add-to-cart request body.
type AddInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Add appends a line item to the user's cart. Every call creates a new row;
// repeated adds of one product are not merged.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.CartItem, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	qty := in.Quantity
	if qty < 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if qty > domain.MaxQuantity {
		return nil, fmt.Errorf("%w: quantity must not exceed %d", domain.ErrInvalidInput, domain.MaxQuantity)
	}
	if qty == 0 {
		qty = 1
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	item, err := s.repo.AddItem(ctx, cartrepo.AddItemInput{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("cart: added item id=%s user_id=%s product_id=%s qty=%d", item.ID, userID, productID, qty)
	return item, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.repo.ListByUser(ctx, userID)
}
