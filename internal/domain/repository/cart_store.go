// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"munch/internal/domain/entity"

	"github.com/google/uuid"
)

// CartStore holds the per-session shopping carts. Carts live only for the
// duration of a browsing session and are never persisted to the database,
// so the store is an in-memory structure keyed by the owning user.
type CartStore interface {
	// Get returns a snapshot of the user's cart. A user with no cart yet
	// gets an empty one.
	Get(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// Mutate applies fn to the user's cart under the store's lock and
	// returns a snapshot of the resulting cart.
	Mutate(ctx context.Context, userID uuid.UUID, fn func(cart *entity.Cart)) (*entity.Cart, error)

	// Clear drops the user's cart entirely.
	Clear(ctx context.Context, userID uuid.UUID) error
}
