package checkout

import (
	"context"
	"fmt"

	"shopfront/internal/config"
	"shopfront/internal/domain"
	orderrepo "shopfront/internal/repository/order"

	"github.com/shopspring/decimal"
)

// Pricer computes an order total from cart items inside the checkout
// transaction.
type Pricer interface {
	Total(ctx context.Context, tx orderrepo.Tx, items []domain.CartItem) (decimal.Decimal, error)
}

// FlatPricer charges the same unit price for every product.
type FlatPricer struct {
	UnitPrice decimal.Decimal
}

func (p FlatPricer) Total(_ context.Context, _ orderrepo.Tx, items []domain.CartItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

// CatalogPricer charges each product's stored price.
type CatalogPricer struct{}

func (CatalogPricer) Total(ctx context.Context, tx orderrepo.Tx, items []domain.CartItem) (decimal.Decimal, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	prices, err := tx.ProductPrices(ctx, ids)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, it := range items {
		price, ok := prices[it.ProductID]
		if !ok {
			return decimal.Zero, fmt.Errorf("price for product %s: %w", it.ProductID, domain.ErrNotFound)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

// PricerFromConfig picks the pricing mode named in configuration.
func PricerFromConfig(cfg config.Config) (Pricer, error) {
	switch cfg.CheckoutPricing {
	case config.PricingCatalog:
		return CatalogPricer{}, nil
	case config.PricingFlat, "":
		unit, err := decimal.NewFromString(cfg.FlatUnitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse flat unit price %q: %w", cfg.FlatUnitPrice, err)
		}
		if unit.IsNegative() {
			return nil, fmt.Errorf("flat unit price must not be negative")
		}
		return FlatPricer{UnitPrice: unit}, nil
	default:
		return nil, fmt.Errorf("unknown checkout pricing %q", cfg.CheckoutPricing)
	}
}
