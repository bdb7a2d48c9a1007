package impl

import (
	"context"
	"strings"
	"testing"

	"munch/internal/domain/entity"
	domainerrors "munch/internal/domain/errors"
	"munch/internal/domain/repository"
	"munch/internal/domain/service"
	mockRepo "munch/internal/mocks/repository"
	mockSvc "munch/internal/mocks/service"
	"munch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// productServiceFixtures holds all test dependencies for product service tests.
type productServiceFixtures struct {
	service     usecase.ProductUsecase
	productRepo *mockRepo.MockProductRepository
	storage     *mockSvc.MockObjectStorage
}

func createTestProductService(t *testing.T) productServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	storage := mockSvc.NewMockObjectStorage(t)

	service := NewProductService(ProductServiceParams{
		ProductRepo: productRepo,
		Storage:     storage,
		Logger:      newDiscardLogger(),
	})

	return productServiceFixtures{
		service:     service,
		productRepo: productRepo,
		storage:     storage,
	}
}

func TestProductService_ListProducts(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	products := []*entity.Product{
		newTestProduct("Margherita", 9.99),
		newTestProduct("Pepperoni", 12.50),
	}

	fx.productRepo.EXPECT().List(ctx).Return(products, nil)

	listed, err := fx.service.ListProducts(ctx)

	require.NoError(t, err)
	assert.Equal(t, products, listed)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().FindByID(ctx, productID).Return(nil, repository.ErrProductNotFound)

	product, err := fx.service.GetProduct(ctx, productID)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()

	fx.productRepo.EXPECT().Create(ctx, mock.Anything).
		Run(func(_ context.Context, product *entity.Product) {
			product.ID = uuid.New()
		}).
		Return(nil)

	product, err := fx.service.CreateProduct(ctx, &usecase.CreateProductInput{
		Name:        "Diavola",
		Description: "Spicy salami and chili",
		Price:       13.00,
		SizePrices: map[entity.Size]float64{
			entity.SizeS:  11.00,
			entity.SizeL:  15.00,
			entity.SizeXL: 18.00,
		},
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "Diavola", product.Name)
	assert.InDelta(t, 15.00, product.SizePrices[entity.SizeL], 0.0001)
}

func TestProductService_CreateProduct_InvalidSizePrices(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()

	product, err := fx.service.CreateProduct(ctx, &usecase.CreateProductInput{
		Name:  "Bad Tiers",
		Price: 10.00,
		SizePrices: map[entity.Size]float64{
			entity.Size("XXL"): 20.00,
		},
	})
	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidSize))

	product, err = fx.service.CreateProduct(ctx, &usecase.CreateProductInput{
		Name:  "Free Pizza",
		Price: 10.00,
		SizePrices: map[entity.Size]float64{
			entity.SizeM: 0,
		},
	})
	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestProductService_UpdateProduct_AppliesPartialFields(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	existing := newTestProduct("Margherita", 9.99)

	fx.productRepo.EXPECT().FindByID(ctx, existing.ID).Return(existing, nil)
	fx.productRepo.EXPECT().Update(ctx, mock.Anything).Return(nil)

	newName := "Margherita Bufala"
	newPrice := 11.50
	updated, err := fx.service.UpdateProduct(ctx, existing.ID, &usecase.UpdateProductInput{
		Name:  &newName,
		Price: &newPrice,
	})

	require.NoError(t, err)
	assert.Equal(t, "Margherita Bufala", updated.Name)
	assert.InDelta(t, 11.50, updated.Price, 0.0001)
	// Untouched fields keep their values.
	assert.InDelta(t, 11.99, updated.SizePrices[entity.SizeL], 0.0001)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().FindByID(ctx, productID).Return(nil, repository.ErrProductNotFound)

	newName := "Ghost"
	updated, err := fx.service.UpdateProduct(ctx, productID, &usecase.UpdateProductInput{Name: &newName})

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestProductService_DeleteProduct(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().Delete(ctx, productID).Return(nil)

	require.NoError(t, fx.service.DeleteProduct(ctx, productID))
}

func TestProductService_UploadProductImage(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	content := strings.NewReader("png bytes")

	fx.storage.EXPECT().Upload(ctx, service.BucketProductImages, "image/png", content).
		Return("products/abc.png", nil)
	fx.storage.EXPECT().PublicURL(ctx, service.BucketProductImages, "products/abc.png").
		Return("https://cdn.example.com/products/abc.png", nil)

	output, err := fx.service.UploadProductImage(ctx, "image/png", content)

	require.NoError(t, err)
	assert.Equal(t, "products/abc.png", output.Path)
	assert.Equal(t, "https://cdn.example.com/products/abc.png", output.URL)
}

func TestProductService_UploadProductImage_URLLookupDegrades(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	content := strings.NewReader("png bytes")

	fx.storage.EXPECT().Upload(ctx, service.BucketProductImages, "image/png", content).
		Return("products/def.png", nil)
	fx.storage.EXPECT().PublicURL(ctx, service.BucketProductImages, "products/def.png").
		Return("", errors.New("signing unavailable"))

	output, err := fx.service.UploadProductImage(ctx, "image/png", content)

	require.NoError(t, err)
	assert.Equal(t, "products/def.png", output.Path)
	assert.Empty(t, output.URL)
}
