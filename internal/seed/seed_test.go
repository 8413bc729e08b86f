package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_UpsertsAccountsAndProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Demo Seller", "seller@example.com", pgxmock.AnyArg(), "seller").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("seller-id"))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Demo Buyer", "buyer@example.com", pgxmock.AnyArg(), "buyer").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("buyer-id"))
	mock.ExpectExec("INSERT INTO products").
		WithArgs("Demo T-Shirt", pgxmock.AnyArg(), "19.99", 50, "seller-id").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO products").
		WithArgs("Demo Mug", pgxmock.AnyArg(), "12.99", 25, "seller-id").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, Apply(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_StopsOnUserFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO users").WillReturnError(errors.New("db down"))

	err = Apply(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure seller")
	assert.NoError(t, mock.ExpectationsWereMet())
}
