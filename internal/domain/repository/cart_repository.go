package repository

import (
	"context"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// CartRepository mutates the cart lines embedded in a user record.
// Every method returns ErrNotFound when the user does not exist.
type CartRepository interface {
	// Lines returns the cart in insertion order.
	Lines(ctx context.Context, userID string) ([]entity.CartLine, error)
	// Append adds a line in a single conditional write. Returns ErrAlreadyInCart if a line
	// for the same product exists.
	Append(ctx context.Context, userID string, line entity.CartLine) error
	// Remove drops any line for productID and returns the remaining lines.
	Remove(ctx context.Context, userID, productID string) ([]entity.CartLine, error)
	// SetQuantity replaces the quantity of one line atomically. Returns ErrNotInCart when
	// there is no line for productID.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]entity.CartLine, error)
}
