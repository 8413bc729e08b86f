package seed

import (
	"context"
	"fmt"

	"shopfront/internal/db"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type userSeed struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type productSeed struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

var (
	// DemoSeller owns the seeded products.
	DemoSeller = userSeed{Name: "Demo Seller", Email: "seller@example.com", Password: "Seller123", Role: "seller"}
	DemoBuyer  = userSeed{Name: "Demo Buyer", Email: "buyer@example.com", Password: "Buyer1234", Role: "buyer"}

	demoProducts = []productSeed{
		{Name: "Demo T-Shirt", Description: "Soft cotton tee for demo purposes", Price: decimal.RequireFromString("19.99"), Stock: 50},
		{Name: "Demo Mug", Description: "Ceramic mug with demo logo", Price: decimal.RequireFromString("12.99"), Stock: 25},
	}
)

// Apply inserts demo accounts and products for manual testing. Running it
// again leaves existing rows untouched.
func Apply(ctx context.Context, pool db.Pool) error {
	sellerID, err := ensureUser(ctx, pool, DemoSeller)
	if err != nil {
		return fmt.Errorf("ensure seller: %w", err)
	}
	if _, err := ensureUser(ctx, pool, DemoBuyer); err != nil {
		return fmt.Errorf("ensure buyer: %w", err)
	}

	for _, p := range demoProducts {
		if err := ensureProduct(ctx, pool, sellerID, p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}
	return nil
}

func ensureUser(ctx context.Context, pool db.Pool, u userSeed) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT ((lower(email))) DO UPDATE SET name = users.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, u.Name, u.Email, string(hash), u.Role).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool db.Pool, sellerID string, p productSeed) error {
	const q = `
INSERT INTO products (name, description, price, stock, seller_id)
SELECT $1, $2, $3::numeric, $4, $5
WHERE NOT EXISTS (
    SELECT 1 FROM products WHERE seller_id = $5 AND name = $1
)
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.Price.String(), p.Stock, sellerID)
	return err
}
