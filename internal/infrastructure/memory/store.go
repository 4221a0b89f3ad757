// Package memory is a process-local store used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

// Store implements the user, cart and product repositories over maps guarded by one mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*entity.User
	emails   map[string]string
	products map[string]*entity.Product
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entity.User),
		emails:   make(map[string]string),
		products: make(map[string]*entity.Product),
	}
}

// Users, Carts and Products expose the store through the repository contracts.
func (s *Store) Users() repository.UserRepository       { return userRepo{s} }
func (s *Store) Carts() repository.CartRepository       { return cartRepo{s} }
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

// DeleteUser removes a user. Only used to simulate accounts removed out of band.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		delete(s.emails, entity.NormalizeEmail(u.Email))
		delete(s.users, id)
	}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.CartItems = append([]entity.CartLine{}, u.CartItems...)
	return &cp
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.Sizes = append([]string(nil), p.Sizes...)
	cp.VarietyOfProduct = append([]string(nil), p.VarietyOfProduct...)
	cp.Colors = append([]entity.Color(nil), p.Colors...)
	cp.Features = append([]string(nil), p.Features...)
	return &cp
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := entity.NormalizeEmail(u.Email)
	if _, ok := r.s.emails[key]; ok {
		return repository.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u.ID, u.Email = entity.NewID(), key
	if !u.Role.Valid() {
		u.Role = entity.RoleUser
	}
	if u.CartItems == nil {
		u.CartItems = []entity.CartLine{}
	}
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = cloneUser(u)
	r.s.emails[key] = u.ID
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r userRepo) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type cartRepo struct{ s *Store }

func (r cartRepo) Lines(_ context.Context, userID string) ([]entity.CartLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]entity.CartLine{}, u.CartItems...), nil
}

func (r cartRepo) Append(_ context.Context, userID string, line entity.CartLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if entity.FindLine(u.CartItems, line.ProductID) >= 0 {
		return repository.ErrAlreadyInCart
	}
	u.CartItems = append(u.CartItems, line)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r cartRepo) Remove(_ context.Context, userID, productID string) ([]entity.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := make([]entity.CartLine, 0, len(u.CartItems))
	for _, l := range u.CartItems {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	u.CartItems = kept
	u.UpdatedAt = time.Now().UTC()
	return append([]entity.CartLine{}, kept...), nil
}

func (r cartRepo) SetQuantity(_ context.Context, userID, productID string, quantity int) ([]entity.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	i := entity.FindLine(u.CartItems, productID)
	if i < 0 {
		return nil, repository.ErrNotInCart
	}
	u.CartItems[i].Quantity = quantity
	u.UpdatedAt = time.Now().UTC()
	return append([]entity.CartLine{}, u.CartItems...), nil
}

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = entity.NewID()
	}
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r productRepo) GetByIDs(_ context.Context, ids []string) ([]entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, *cloneProduct(p))
		}
	}
	return out, nil
}

func (r productRepo) List(_ context.Context) ([]entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, *cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r productRepo) Delete(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.products, id)
	return p, nil
}

var (
	_ repository.UserRepository    = userRepo{}
	_ repository.CartRepository    = cartRepo{}
	_ repository.ProductRepository = productRepo{}
)
