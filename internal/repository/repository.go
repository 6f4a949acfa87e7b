package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// CartRepository defines the cart store contract: lines are appended, never
// edited, and read back in insertion order.
type CartRepository interface {
	// Append adds item to the end of the cart identified by cartID,
	// creating the cart when it does not exist yet.
	Append(ctx context.Context, cartID string, item domain.CartItem) error

	// List returns the lines of a cart in insertion order. An unknown cart
	// is empty, not an error.
	List(ctx context.Context, cartID string) ([]domain.CartItem, error)
}
