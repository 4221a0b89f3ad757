// Package repotest holds behaviour checks shared by every store backend.
package repotest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

// Stores is one backend under test.
type Stores struct {
	Users    repository.UserRepository
	Carts    repository.CartRepository
	Products repository.ProductRepository
}

func newUser(t *testing.T, s Stores, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: "Test", Email: email, Password: "hash", Role: entity.RoleUser}
	require.NoError(t, s.Users.Create(context.Background(), u))
	require.True(t, entity.ValidID(u.ID))
	return u
}

func newProduct(t *testing.T, s Stores, name string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:             name,
		Price:            12.5,
		Description:      "d",
		Images:           []string{"i"},
		Sizes:            []string{"M"},
		VarietyOfProduct: []string{"v"},
		Colors:           []entity.Color{{Name: "Red", Value: "#f00"}},
		Category:         "c",
		Specifications:   entity.Specifications{Material: "Cotton"},
	}
	require.NoError(t, s.Products.Create(context.Background(), p))
	return p
}

func line(t *testing.T, productID, size string, qty int) entity.CartLine {
	t.Helper()
	l, err := entity.NewCartLine(productID, size, qty)
	require.NoError(t, err)
	return l
}

// Run exercises the user, cart and product repositories of one backend.
// Emails are prefixed so the suite can share a database with other tests.
func Run(t *testing.T, s Stores, prefix string) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		u := newUser(t, s, prefix+"Dup@Example.com")

		dup := &entity.User{Name: "Other", Email: prefix + "dup@example.com", Password: "hash"}
		assert.ErrorIs(t, s.Users.Create(ctx, dup), repository.ErrDuplicateEmail)

		byEmail, err := s.Users.GetByEmail(ctx, prefix+"DUP@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
		assert.Equal(t, entity.RoleUser, byEmail.Role)

		phone1 := &entity.User{Name: "P1", Email: prefix + "p1@example.com", Password: "h", PhoneNumber: "+6281234567"}
		phone2 := &entity.User{Name: "P2", Email: prefix + "p2@example.com", Password: "h", PhoneNumber: "+6281234567"}
		require.NoError(t, s.Users.Create(ctx, phone1))
		require.NoError(t, s.Users.Create(ctx, phone2), "phone numbers are not unique")

		_, err = s.Users.GetByID(ctx, entity.NewID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("cart lines keep insertion order and reject duplicates", func(t *testing.T) {
		u := newUser(t, s, prefix+"cart@example.com")
		a, b, c := newProduct(t, s, "a"), newProduct(t, s, "b"), newProduct(t, s, "c")

		require.NoError(t, s.Carts.Append(ctx, u.ID, line(t, a.ID, "", 1)))
		require.NoError(t, s.Carts.Append(ctx, u.ID, line(t, b.ID, "L", 2)))
		require.NoError(t, s.Carts.Append(ctx, u.ID, line(t, c.ID, "S", 1)))
		assert.ErrorIs(t, s.Carts.Append(ctx, u.ID, line(t, b.ID, "S", 5)), repository.ErrAlreadyInCart)

		lines, err := s.Carts.Lines(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
		assert.Equal(t, entity.DefaultSize, lines[0].Size)
		assert.Equal(t, 2, lines[1].Quantity)

		updated, err := s.Carts.SetQuantity(ctx, u.ID, a.ID, 7)
		require.NoError(t, err)
		require.Len(t, updated, 3)
		assert.Equal(t, a.ID, updated[0].ProductID)
		assert.Equal(t, 7, updated[0].Quantity)
		assert.Equal(t, entity.DefaultSize, updated[0].Size)

		_, err = s.Carts.SetQuantity(ctx, u.ID, entity.NewID(), 2)
		assert.ErrorIs(t, err, repository.ErrNotInCart)

		remaining, err := s.Carts.Remove(ctx, u.ID, b.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 2)
		assert.Equal(t, []string{a.ID, c.ID}, []string{remaining[0].ProductID, remaining[1].ProductID})

		remaining, err = s.Carts.Remove(ctx, u.ID, b.ID)
		require.NoError(t, err)
		assert.Len(t, remaining, 2)

		got, err := s.Users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, got.CartItems, 2)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost := entity.NewID()
		p := newProduct(t, s, "ghost")
		assert.ErrorIs(t, s.Carts.Append(ctx, ghost, line(t, p.ID, "", 1)), repository.ErrNotFound)
		_, err := s.Carts.Lines(ctx, ghost)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = s.Carts.Remove(ctx, ghost, p.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = s.Carts.SetQuantity(ctx, ghost, p.ID, 2)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("concurrent adds of one product leave a single line", func(t *testing.T) {
		u := newUser(t, s, prefix+"race@example.com")
		p := newProduct(t, s, "race")

		const workers = 16
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			ok, dup int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l, _ := entity.NewCartLine(p.ID, "", 1)
				err := s.Carts.Append(ctx, u.ID, l)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case assert.ErrorIs(t, err, repository.ErrAlreadyInCart):
					dup++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, dup)
		lines, err := s.Carts.Lines(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("products", func(t *testing.T) {
		p := newProduct(t, s, "catalog")
		got, err := s.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "catalog", got.Name)
		assert.Equal(t, []entity.Color{{Name: "Red", Value: "#f00"}}, got.Colors)
		assert.Equal(t, "Cotton", got.Specifications.Material)

		many, err := s.Products.GetByIDs(ctx, []string{p.ID, entity.NewID()})
		require.NoError(t, err)
		require.Len(t, many, 1)
		assert.Equal(t, p.ID, many[0].ID)

		deleted, err := s.Products.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, deleted.ID)
		_, err = s.Products.GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = s.Products.Delete(ctx, p.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
