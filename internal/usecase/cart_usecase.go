// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"munch/internal/domain/entity"

	"github.com/google/uuid"
)

// CartUsecase defines the interface for shopping cart operations. Every
// operation is scoped to the authenticated user's own cart.
type CartUsecase interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)
	AddItem(ctx context.Context, userID uuid.UUID, input *AddCartItemInput) (*CartOutput, error)
	UpdateItemQuantity(ctx context.Context, userID uuid.UUID, input *UpdateCartItemInput) (*CartOutput, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*CartOutput, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// --- Input DTOs ---

// AddCartItemInput defines the data required to add a product to the cart.
type AddCartItemInput struct {
	ProductID uuid.UUID
	Size      entity.Size
	Quantity  int
}

// UpdateCartItemInput defines the data required to change a cart line's quantity.
// A non-positive quantity removes the line.
type UpdateCartItemInput struct {
	ItemID   uuid.UUID
	Size     entity.Size
	Quantity int
}

// --- Output DTOs ---

// CartOutput is a snapshot of the cart with its total freshly recomputed.
type CartOutput struct {
	Items []entity.CartItem
	Total float64
}
