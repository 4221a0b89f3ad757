package repository

import (
	"context"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs skips ids that do not exist.
	GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	// Delete returns the removed product, or ErrNotFound.
	Delete(ctx context.Context, id string) (*entity.Product, error)
}
