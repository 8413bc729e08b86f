// Package testutil holds helpers for tests that need a real Postgres.
package testutil

import (
	"context"
	"os"
	"testing"

	"shopfront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Postgres connects to TEST_DB_DSN, applies migrations and empties every
// table. The test is skipped when TEST_DB_DSN is unset.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	_, err = migrate.Apply(ctx, pool)
	require.NoError(t, err, "apply migrations")

	_, err = pool.Exec(ctx, `TRUNCATE refresh_tokens, orders, cart_items, products, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "truncate tables")
	return pool
}

// InsertUser creates a user row directly and returns its id.
func InsertUser(t *testing.T, pool *pgxpool.Pool, email, role string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, 'x', $3)
RETURNING id::text
`, email, email, role).Scan(&id)
	require.NoError(t, err, "insert user")
	return id
}
