package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, price, original_price, description, images, sizes, variety_of_product,
	colors, category, is_new, on_sale, rating, reviews, features, specifications, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Description, &p.Images, &p.Sizes,
		&p.VarietyOfProduct, &p.Colors, &p.Category, &p.IsNew, &p.OnSale, &p.Rating, &p.Reviews,
		&p.Features, &p.Specifications, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, price, original_price, description, images, sizes, variety_of_product,
			colors, category, is_new, on_sale, rating, reviews, features, specifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Price, p.OriginalPrice, p.Description, nonNil(p.Images), nonNil(p.Sizes),
		nonNil(p.VarietyOfProduct), nonNil(p.Colors), p.Category, p.IsNew, p.OnSale, p.Rating, p.Reviews,
		nonNil(p.Features), p.Specifications)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if k, err := uuid.Parse(id); err == nil {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return []entity.Product{}, nil
	}
	return r.query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, keys)
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at`)
}

func (r *ProductRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	out := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id))
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
