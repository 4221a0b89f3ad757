package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/internal/infrastructure/memory"
)

type cartFixture struct {
	store    *memory.Store
	svc      *CartService
	userID   string
	product1 *entity.Product
	product2 *entity.Product
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	products := NewProductService(store.Products(), nil)

	u := &entity.User{Name: "Alice", Email: "a@x.com", Password: "hash"}
	require.NoError(t, store.Users().Create(ctx, u))
	p1 := &entity.Product{Name: "Linen Shirt", Price: 20}
	p2 := &entity.Product{Name: "Chino", Price: 35}
	require.NoError(t, store.Products().Create(ctx, p1))
	require.NoError(t, store.Products().Create(ctx, p2))

	return &cartFixture{
		store:    store,
		svc:      NewCartService(store.Carts(), store.Users(), products, nil),
		userID:   u.ID,
		product1: p1,
		product2: p2,
	}
}

func TestCartService_EndToEnd(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddItem(ctx, f.userID, f.product1.ID, "", 1))

	items, err := f.svc.ListItems(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.product1.ID, items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "M", items[0].Size)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Linen Shirt", items[0].Product.Name)

	items, err = f.svc.UpdateQuantity(ctx, f.userID, f.product1.ID, 3, "XL")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "M", items[0].Size)

	items, err = f.svc.RemoveItem(ctx, f.userID, f.product1.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_AddRejectsDuplicateWithoutMerging(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddItem(ctx, f.userID, f.product1.ID, "S", 2))
	err := f.svc.AddItem(ctx, f.userID, f.product1.ID, "L", 5)
	assert.ErrorIs(t, err, ErrAlreadyInCart)

	items, err := f.svc.ListItems(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "S", items[0].Size)
}

func TestCartService_PreservesInsertionOrder(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddItem(ctx, f.userID, f.product2.ID, "M", 1))
	require.NoError(t, f.svc.AddItem(ctx, f.userID, f.product1.ID, "M", 1))

	items, err := f.svc.UpdateQuantity(ctx, f.userID, f.product2.ID, 4, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, f.product2.ID, items[0].ProductID)
	assert.Equal(t, f.product1.ID, items[1].ProductID)

	uc, err := f.svc.UserWithCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, uc.User.Password)
	assert.InDelta(t, 4*35.0+20.0, uc.Total, 1e-9)
}

func TestCartService_Validation(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.AddItem(ctx, "bad", f.product1.ID, "M", 1), ErrInvalidID)
	assert.ErrorIs(t, f.svc.AddItem(ctx, f.userID, "bad", "M", 1), ErrInvalidID)
	assert.ErrorIs(t, f.svc.AddItem(ctx, f.userID, f.product1.ID, "M", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, f.svc.AddItem(ctx, f.userID, f.product1.ID, "M", entity.MaxQuantity+1), ErrInvalidQuantity)
	assert.ErrorIs(t, f.svc.AddItem(ctx, strings.ToUpper(f.userID), f.product1.ID, "M", 1), ErrInvalidID)
	assert.ErrorIs(t, f.svc.AddItem(ctx, f.userID, entity.NewID(), "M", 1), ErrProductNotFound)
	assert.ErrorIs(t, f.svc.AddItem(ctx, entity.NewID(), f.product1.ID, "M", 1), ErrUserNotFound)

	_, err := f.svc.UpdateQuantity(ctx, f.userID, f.product1.ID, 0, "M")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = f.svc.UpdateQuantity(ctx, f.userID, f.product1.ID, -2, "M")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = f.svc.UpdateQuantity(ctx, f.userID, f.product1.ID, 1<<31, "M")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = f.svc.UpdateQuantity(ctx, f.userID, f.product1.ID, 2, "M")
	assert.ErrorIs(t, err, ErrItemNotInCart)

	_, err = f.svc.RemoveItem(ctx, f.userID, "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = f.svc.ListItems(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = f.svc.ListItems(ctx, entity.NewID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCartService_RemoveAbsentIsIdempotent(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.AddItem(ctx, f.userID, f.product1.ID, "M", 1))

	items, err := f.svc.RemoveItem(ctx, f.userID, f.product2.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.product1.ID, items[0].ProductID)
}

func TestCartService_DanglingProductResolvesToNil(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.AddItem(ctx, f.userID, f.product1.ID, "M", 1))
	_, err := f.store.Products().Delete(ctx, f.product1.ID)
	require.NoError(t, err)

	items, err := f.svc.ListItems(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Product)
}

type mockCartRepo struct{ mock.Mock }

func (m *mockCartRepo) Lines(ctx context.Context, userID string) ([]entity.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]entity.CartLine)
	return lines, args.Error(1)
}

func (m *mockCartRepo) Append(ctx context.Context, userID string, line entity.CartLine) error {
	return m.Called(ctx, userID, line).Error(0)
}

func (m *mockCartRepo) Remove(ctx context.Context, userID, productID string) ([]entity.CartLine, error) {
	args := m.Called(ctx, userID, productID)
	lines, _ := args.Get(0).([]entity.CartLine)
	return lines, args.Error(1)
}

func (m *mockCartRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]entity.CartLine, error) {
	args := m.Called(ctx, userID, productID, quantity)
	lines, _ := args.Get(0).([]entity.CartLine)
	return lines, args.Error(1)
}

func TestCartService_PropagatesStoreFailures(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	boom := errors.New("connection reset")

	repo := new(mockCartRepo)
	repo.On("Append", mock.Anything, f.userID, mock.AnythingOfType("entity.CartLine")).Return(boom)
	repo.On("SetQuantity", mock.Anything, f.userID, f.product1.ID, 2).Return(nil, boom)
	repo.On("Remove", mock.Anything, f.userID, f.product1.ID).Return(nil, repository.ErrNotFound)

	svc := NewCartService(repo, f.store.Users(), NewProductService(f.store.Products(), nil), nil)

	err := svc.AddItem(ctx, f.userID, f.product1.ID, "M", 1)
	assert.ErrorIs(t, err, boom)
	_, err = svc.UpdateQuantity(ctx, f.userID, f.product1.ID, 2, "M")
	assert.ErrorIs(t, err, boom)
	_, err = svc.RemoveItem(ctx, f.userID, f.product1.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	repo.AssertExpectations(t)
}
