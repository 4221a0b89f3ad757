package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

// CartRepository stores cart lines in cart_items keyed by (user_id, product_id),
// so the no-duplicate rule is enforced by the primary key.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *CartRepository) userExists(ctx context.Context, q querier, userID string) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&ok)
	return ok, err
}

func (r *CartRepository) lines(ctx context.Context, q querier, userID string) ([]entity.CartLine, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, quantity, size, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart lines: %w", err)
	}
	defer rows.Close()

	out := []entity.CartLine{}
	for rows.Next() {
		var l entity.CartLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.Size, &l.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *CartRepository) Lines(ctx context.Context, userID string) ([]entity.CartLine, error) {
	ok, err := r.userExists(ctx, r.pool, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.lines(ctx, r.pool, userID)
}

func (r *CartRepository) Append(ctx context.Context, userID string, line entity.CartLine) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity, size, added_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, line.ProductID, line.Quantity, line.Size, line.AddedAt)
	switch pgCode(err) {
	case "":
		if err != nil {
			return fmt.Errorf("insert cart line: %w", err)
		}
	case pgUniqueViolation:
		return repository.ErrAlreadyInCart
	case pgForeignKeyViolation:
		return repository.ErrNotFound
	default:
		return fmt.Errorf("insert cart line: %w", err)
	}
	_, err = r.pool.Exec(ctx, `UPDATE users SET updated_at = now() WHERE id = $1`, userID)
	return err
}

func (r *CartRepository) Remove(ctx context.Context, userID, productID string) ([]entity.CartLine, error) {
	var out []entity.CartLine
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ok, err := r.userExists(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID); err != nil {
			return fmt.Errorf("delete cart line: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET updated_at = now() WHERE id = $1`, userID); err != nil {
			return err
		}
		out, err = r.lines(ctx, tx, userID)
		return err
	})
	return out, err
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]entity.CartLine, error) {
	var out []entity.CartLine
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE cart_items SET quantity = $3
			WHERE user_id = $1 AND product_id = $2
		`, userID, productID, quantity)
		if err != nil {
			return fmt.Errorf("update cart quantity: %w", err)
		}
		if tag.RowsAffected() == 0 {
			ok, err := r.userExists(ctx, tx, userID)
			if err != nil {
				return err
			}
			if !ok {
				return repository.ErrNotFound
			}
			return repository.ErrNotInCart
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET updated_at = now() WHERE id = $1`, userID); err != nil {
			return err
		}
		out, err = r.lines(ctx, tx, userID)
		return err
	})
	return out, err
}

var _ repository.CartRepository = (*CartRepository)(nil)
