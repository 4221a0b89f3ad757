package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	repo "github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/metrics"
)

// ProductResolver loads catalog entries referenced by cart lines.
type ProductResolver interface {
	Get(ctx context.Context, id string) (*entity.Product, error)
	Resolve(ctx context.Context, ids []string) (map[string]entity.Product, error)
}

// CartService reconciles a user's cart lines against the catalog.
type CartService struct {
	Carts    repo.CartRepository
	Users    repo.UserRepository
	Products ProductResolver
	Metrics  *metrics.Manager
	Logger   *logrus.Logger
}

func NewCartService(carts repo.CartRepository, users repo.UserRepository, products ProductResolver, logger *logrus.Logger) *CartService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &CartService{Carts: carts, Users: users, Products: products, Logger: logger}
}

// UserCart is a user with every cart line resolved to its product.
type UserCart struct {
	User  *entity.User
	Items []entity.ResolvedCartLine
	Total float64
}

// AddItem appends a new line. A product already in the cart is rejected, never merged.
func (s *CartService) AddItem(ctx context.Context, userID, productID, size string, quantity int) (err error) {
	defer func() { s.record("add", err) }()

	if !entity.ValidID(userID) || !entity.ValidID(productID) {
		return ErrInvalidID
	}
	if !entity.ValidQuantity(quantity) {
		return ErrInvalidQuantity
	}
	if _, err := s.Products.Get(ctx, productID); err != nil {
		return err
	}
	line, err := entity.NewCartLine(productID, size, quantity)
	if err != nil {
		return ErrInvalidQuantity
	}

	if err := s.Carts.Append(ctx, userID, line); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repo.ErrAlreadyInCart):
			return ErrAlreadyInCart
		}
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "product_id": productID}).Error("append cart line failed")
		return err
	}
	return nil
}

// RemoveItem drops the line for productID. Removing an absent product succeeds.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (lines []entity.ResolvedCartLine, err error) {
	defer func() { s.record("remove", err) }()

	if !entity.ValidID(userID) || !entity.ValidID(productID) {
		return nil, ErrInvalidID
	}
	remaining, err := s.Carts.Remove(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "product_id": productID}).Error("remove cart line failed")
		return nil, err
	}
	return s.resolve(ctx, remaining)
}

// UpdateQuantity replaces the quantity of one line. size is accepted and not applied.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int, _ string) (lines []entity.ResolvedCartLine, err error) {
	defer func() { s.record("update", err) }()

	if !entity.ValidID(userID) || !entity.ValidID(productID) {
		return nil, ErrInvalidID
	}
	if !entity.ValidQuantity(quantity) {
		return nil, ErrInvalidQuantity
	}
	updated, err := s.Carts.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repo.ErrNotInCart):
			return nil, ErrItemNotInCart
		}
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "product_id": productID}).Error("update cart quantity failed")
		return nil, err
	}
	return s.resolve(ctx, updated)
}

// ListItems returns the cart in insertion order with products resolved.
func (s *CartService) ListItems(ctx context.Context, userID string) ([]entity.ResolvedCartLine, error) {
	if !entity.ValidID(userID) {
		return nil, ErrInvalidID
	}
	lines, err := s.Carts.Lines(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.resolve(ctx, lines)
}

// UserWithCart loads the user and resolves its cart in one call.
func (s *CartService) UserWithCart(ctx context.Context, userID string) (*UserCart, error) {
	if !entity.ValidID(userID) {
		return nil, ErrInvalidID
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	items, err := s.resolve(ctx, u.CartItems)
	if err != nil {
		return nil, err
	}
	return &UserCart{User: u.Sanitized(), Items: items, Total: entity.CartTotal(items)}, nil
}

func (s *CartService) resolve(ctx context.Context, lines []entity.CartLine) ([]entity.ResolvedCartLine, error) {
	out := make([]entity.ResolvedCartLine, 0, len(lines))
	if len(lines) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.Products.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		rl := entity.ResolvedCartLine{ProductID: l.ProductID, Quantity: l.Quantity, Size: l.Size}
		if p, ok := products[l.ProductID]; ok {
			rl.Product = &p
		}
		out = append(out, rl)
	}
	return out, nil
}

func (s *CartService) record(op string, err error) {
	s.Metrics.CartOp(op, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidQuantity):
		return "invalid"
	case errors.Is(err, ErrAlreadyInCart):
		return "already_in_cart"
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProductNotFound), errors.Is(err, ErrItemNotInCart):
		return "not_found"
	default:
		return "error"
	}
}
