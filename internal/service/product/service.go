package product

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"shopfront/internal/domain"
	productrepo "shopfront/internal/repository/product"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo   productrepo.Repository
	logger *log.Logger
}

func New(repo productrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateInput is what a seller submits to list a product.
type CreateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Create lists a product owned by sellerID.
func (s *Service) Create(ctx context.Context, sellerID string, in CreateInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	price := in.Price.Round(2)
	if price.GreaterThan(domain.MaxAmount) {
		return nil, fmt.Errorf("%w: price must not exceed %s", domain.ErrInvalidInput, domain.MaxAmount.StringFixed(2))
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}
	if in.Stock > domain.MaxStock {
		return nil, fmt.Errorf("%w: stock must not exceed %d", domain.ErrInvalidInput, domain.MaxStock)
	}
	if strings.TrimSpace(sellerID) == "" {
		return nil, fmt.Errorf("%w: seller required", domain.ErrInvalidInput)
	}

	p, err := s.repo.Create(ctx, domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		Stock:       in.Stock,
		SellerID:    sellerID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product: created id=%s seller_id=%s price=%s", p.ID, p.SellerID, p.Price.StringFixed(2))
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}
