package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Column ranges from the schema: quantities and stock are INTEGER, money is
// NUMERIC(12,2).
const (
	MaxQuantity = math.MaxInt32
	MaxStock    = math.MaxInt32
)

// MaxAmount is the largest price or order total the database can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")
