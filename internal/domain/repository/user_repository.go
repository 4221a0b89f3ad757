package repository

import (
	"context"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// UserRepository defines the credential store operations.
type UserRepository interface {
	// Create assigns ID and timestamps. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *entity.User) error
	// GetByID returns the user including its cart lines, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
}
