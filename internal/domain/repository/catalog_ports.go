package repository

import (
	"context"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// ProductCache is a read-through cache in front of ProductRepository.
type ProductCache interface {
	// GetMany returns hits keyed by id plus the ids that missed.
	GetMany(ctx context.Context, ids []string) (map[string]entity.Product, []string, error)
	SetMany(ctx context.Context, products []entity.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductQuery narrows a catalog search. Empty fields are ignored.
type ProductQuery struct {
	Text     string
	Category string
	Size     string
	Limit    int
}

// ProductSearch mirrors the catalog into a full-text index.
type ProductSearch interface {
	Index(ctx context.Context, p *entity.Product) error
	Remove(ctx context.Context, id string) error
	// Search returns matching ids ordered by relevance.
	Search(ctx context.Context, q ProductQuery) ([]string, error)
}
