package impl

import (
	"context"
	"testing"

	"munch/internal/domain/entity"
	domainerrors "munch/internal/domain/errors"
	"munch/internal/domain/repository"
	"munch/internal/infra/cartstore"
	mockRepo "munch/internal/mocks/repository"
	"munch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cartServiceFixtures holds all test dependencies for cart service tests.
// The cart store is the real in-memory implementation; only the product
// lookup is mocked.
type cartServiceFixtures struct {
	service     usecase.CartUsecase
	productRepo *mockRepo.MockProductRepository
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)

	service := NewCartService(CartServiceParams{
		CartStore:   cartstore.NewMemoryStore(),
		ProductRepo: productRepo,
		Logger:      newDiscardLogger(),
	})

	return cartServiceFixtures{
		service:     service,
		productRepo: productRepo,
	}
}

func TestCartService_AddItem_SnapshotsSizePrice(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("Margherita", 9.99)

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddCartItemInput{
		ProductID: product.ID,
		Size:      entity.SizeL,
		Quantity:  2,
	})

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.Name, cart.Items[0].ProductName)
	assert.InDelta(t, 11.99, cart.Items[0].UnitPrice, 0.0001)
	assert.InDelta(t, 23.98, cart.Total, 0.0001)
}

func TestCartService_AddItem_MergesSameProductAndSize(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("Pepperoni", 12.50)

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil).Times(3)

	_, err := fx.service.AddItem(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Size: entity.SizeM, Quantity: 1})
	require.NoError(t, err)
	_, err = fx.service.AddItem(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Size: entity.SizeM, Quantity: 2})
	require.NoError(t, err)
	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Size: entity.SizeS, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().FindByID(ctx, productID).Return(nil, repository.ErrProductNotFound)

	cart, err := fx.service.AddItem(ctx, uuid.New(), &usecase.AddCartItemInput{
		ProductID: productID,
		Size:      entity.SizeM,
		Quantity:  1,
	})

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCartService_AddItem_RejectsInvalidInput(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()

	_, err := fx.service.AddItem(ctx, uuid.New(), &usecase.AddCartItemInput{
		ProductID: uuid.New(),
		Size:      entity.SizeM,
		Quantity:  0,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = fx.service.AddItem(ctx, uuid.New(), &usecase.AddCartItemInput{
		ProductID: uuid.New(),
		Size:      entity.Size("XXL"),
		Quantity:  1,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidSize))
}

func TestCartService_UpdateItemQuantity_SetsAndRemoves(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("Hawaiian", 11.00)

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Size: entity.SizeM, Quantity: 1})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = fx.service.UpdateItemQuantity(ctx, userID, &usecase.UpdateCartItemInput{ItemID: itemID, Size: entity.SizeM, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, err = fx.service.UpdateItemQuantity(ctx, userID, &usecase.UpdateCartItemInput{ItemID: itemID, Size: entity.SizeM, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCartService_UpdateItemQuantity_MissingLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()

	cart, err := fx.service.UpdateItemQuantity(ctx, uuid.New(), &usecase.UpdateCartItemInput{
		ItemID:   uuid.New(),
		Size:     entity.SizeM,
		Quantity: 2,
	})

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.True(t, errors.Is(err, domainerrors.ErrCartItemNotFound))
}

func TestCartService_RemoveItem(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("Veggie", 10.25)

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Size: entity.SizeS, Quantity: 2})
	require.NoError(t, err)

	cart, err = fx.service.RemoveItem(ctx, userID, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = fx.service.RemoveItem(ctx, userID, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrCartItemNotFound))
}

func TestCartService_ClearCart(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("Calzone", 8.75)

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	_, err := fx.service.AddItem(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Size: entity.SizeM, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, fx.service.ClearCart(ctx, userID))

	cart, err := fx.service.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
