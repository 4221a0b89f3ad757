package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

func newUser(t *testing.T, s *Store, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: "Ana", Email: email, Password: "hash"}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestUsers_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	u := newUser(t, s, "ana@example.com")
	assert.True(t, entity.ValidID(u.ID))
	assert.Equal(t, entity.RoleUser, u.Role)

	err := s.Users().Create(context.Background(), &entity.User{Email: "ANA@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	got, err := s.Users().GetByEmail(context.Background(), "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUsers_PhoneNumberNotUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &entity.User{Email: "a@x.com", PhoneNumber: "0812345678"}))
	require.NoError(t, s.Users().Create(ctx, &entity.User{Email: "b@x.com", PhoneNumber: "0812345678"}))
}

func TestCart_AppendRejectsDuplicateAndKeepsOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newUser(t, s, "a@x.com")

	for _, pid := range []string{"p1", "p2", "p3"} {
		require.NoError(t, s.Carts().Append(ctx, u.ID, entity.CartLine{ProductID: pid, Quantity: 1, Size: "M"}))
	}
	err := s.Carts().Append(ctx, u.ID, entity.CartLine{ProductID: "p2", Quantity: 4, Size: "L"})
	assert.ErrorIs(t, err, repository.ErrAlreadyInCart)

	lines, err := s.Carts().SetQuantity(ctx, u.ID, "p2", 7)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
	assert.Equal(t, 7, lines[1].Quantity)
	assert.Equal(t, "M", lines[1].Size)

	_, err = s.Carts().SetQuantity(ctx, u.ID, "zz", 2)
	assert.ErrorIs(t, err, repository.ErrNotInCart)

	lines, err = s.Carts().Remove(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	again, err := s.Carts().Remove(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, lines, again)
}

func TestCart_UnknownUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id := entity.NewID()

	assert.ErrorIs(t, s.Carts().Append(ctx, id, entity.CartLine{ProductID: "p"}), repository.ErrNotFound)
	_, err := s.Carts().Lines(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Carts().Remove(ctx, id, "p")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Carts().SetQuantity(ctx, id, "p", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCart_ConcurrentAddsOfSameProductKeepOneLine(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newUser(t, s, "a@x.com")

	var wg sync.WaitGroup
	results := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Carts().Append(ctx, u.ID, entity.CartLine{ProductID: "p1", Quantity: 1, Size: "M"})
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repository.ErrAlreadyInCart)
		}
	}
	assert.Equal(t, 1, ok)

	lines, err := s.Carts().Lines(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestProducts_CRUD(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := &entity.Product{Name: "Tee", Price: 10}
	require.NoError(t, s.Products().Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := s.Products().GetByIDs(ctx, []string{p.ID, entity.NewID()})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	deleted, err := s.Products().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tee", deleted.Name)

	_, err = s.Products().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Products().Delete(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	s := NewStore()
	u := newUser(t, s, "a@x.com")
	s.DeleteUser(u.ID)

	_, err := s.Users().GetByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, s.Users().Create(context.Background(), &entity.User{Email: "a@x.com"}))
}
