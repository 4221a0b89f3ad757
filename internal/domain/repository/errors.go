package repository

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrAlreadyInCart  = errors.New("product already in cart")
	ErrNotInCart      = errors.New("product not in cart")
)
