package application

import "errors"

// Service-level errors. The HTTP layer maps each one to a status code.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and 999")
	ErrInvalidPassword    = errors.New("password must be between 8 and 72 bytes")
	ErrEmailTaken         = errors.New("user already exists")
	ErrAlreadyInCart      = errors.New("product already in cart")
	ErrItemNotInCart      = errors.New("product not found in cart")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidProduct     = errors.New("invalid product")
)
