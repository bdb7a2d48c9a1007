// Package cartstore provides the in-memory session cart storage.
package cartstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"munch/internal/domain/entity"
	"munch/internal/domain/repository"
)

// memoryStore keeps one cart per user behind a single mutex. Carts are
// session-scoped and intentionally not persisted, a restart starts everyone
// with an empty cart again.
type memoryStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*entity.Cart
}

// NewMemoryStore is the constructor for the in-memory cart store.
func NewMemoryStore() repository.CartStore {
	return &memoryStore{
		carts: make(map[uuid.UUID]*entity.Cart),
	}
}

// Get returns a snapshot of the user's cart. A user with no cart yet gets an empty one.
func (s *memoryStore) Get(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return entity.NewCart(), nil
	}

	return cart.Clone(), nil
}

// Mutate applies fn to the user's cart under the store's lock and returns a
// snapshot of the resulting cart.
func (s *memoryStore) Mutate(ctx context.Context, userID uuid.UUID, fn func(cart *entity.Cart)) (*entity.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		cart = entity.NewCart()
		s.carts[userID] = cart
	}

	fn(cart)

	// Drop empty carts so abandoned sessions do not accumulate.
	if cart.IsEmpty() {
		delete(s.carts, userID)
	}

	return cart.Clone(), nil
}

// Clear drops the user's cart entirely.
func (s *memoryStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)

	return nil
}
