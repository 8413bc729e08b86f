package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput wraps validation failures; the wrapped message is safe to show clients.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCartEmpty is returned when checkout is attempted on a cart without items.
	ErrCartEmpty = errors.New("cart is empty")
)
