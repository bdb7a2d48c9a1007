// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "munch/internal/delivery/context"
	"munch/internal/domain/entity"
	domainerrors "munch/internal/domain/errors"
	"munch/internal/domain/repository"
	"munch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	cartStore   repository.CartStore
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartStore   repository.CartStore
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		cartStore:   params.CartStore,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns a snapshot of the user's cart.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	cart, err := srv.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cart")
	}

	return cartOutput(cart), nil
}

// AddItem adds a product in the selected size to the user's cart, merging
// with an existing line for the same product and size.
func (srv *cartService) AddItem(ctx context.Context, userID uuid.UUID, input *usecase.AddCartItemInput) (*usecase.CartOutput, error) {
	if input.Quantity <= 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "quantity must be positive")
	}
	if !input.Size.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrInvalidSize, "invalid size %q", input.Size.String())
	}

	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to load product for cart")
	}

	cart, err := srv.cartStore.Mutate(ctx, userID, func(cart *entity.Cart) {
		cart.AddItem(entity.NewCartItem(product, input.Size, input.Quantity))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add cart item")
	}

	srv.log(ctx).Debug("Added cart item",
		slog.Any("userID", userID),
		slog.Any("productID", input.ProductID),
		slog.String("size", input.Size.String()),
		slog.Int("quantity", input.Quantity))

	return cartOutput(cart), nil
}

// UpdateItemQuantity sets the quantity of an existing cart line. A
// non-positive quantity removes the line.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, input *usecase.UpdateCartItemInput) (*usecase.CartOutput, error) {
	if !input.Size.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrInvalidSize, "invalid size %q", input.Size.String())
	}

	var found bool
	cart, err := srv.cartStore.Mutate(ctx, userID, func(cart *entity.Cart) {
		for idx := range cart.Items {
			if cart.Items[idx].ID == input.ItemID && cart.Items[idx].Size == input.Size {
				found = true

				break
			}
		}

		cart.UpdateQuantity(entity.CartItem{
			ID:       input.ItemID,
			Size:     input.Size,
			Quantity: input.Quantity,
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update cart item")
	}
	if !found {
		return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "cart item not found")
	}

	return cartOutput(cart), nil
}

// RemoveItem removes a cart line by its id.
func (srv *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*usecase.CartOutput, error) {
	var found bool
	cart, err := srv.cartStore.Mutate(ctx, userID, func(cart *entity.Cart) {
		for idx := range cart.Items {
			if cart.Items[idx].ID == itemID {
				found = true

				break
			}
		}

		cart.RemoveItem(itemID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove cart item")
	}
	if !found {
		return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "cart item not found")
	}

	return cartOutput(cart), nil
}

// ClearCart drops the user's cart entirely.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := srv.cartStore.Clear(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}

	srv.log(ctx).Debug("Cleared cart", slog.Any("userID", userID))

	return nil
}

// cartOutput converts a cart snapshot into the usecase output with a freshly
// recomputed total.
func cartOutput(cart *entity.Cart) *usecase.CartOutput {
	return &usecase.CartOutput{
		Items: cart.Items,
		Total: cart.Total(),
	}
}
