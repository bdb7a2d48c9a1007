// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"io"
	"log/slog"

	deliverycontext "munch/internal/delivery/context"
	"munch/internal/domain/entity"
	domainerrors "munch/internal/domain/errors"
	"munch/internal/domain/repository"
	"munch/internal/domain/service"
	"munch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo repository.ProductRepository
	storage     service.ObjectStorage
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Storage     service.ObjectStorage
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo: params.ProductRepo,
		storage:     params.Storage,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns the full menu ordered by id ascending.
func (srv *productService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns a single menu item.
func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to get product")
	}

	return product, nil
}

// CreateProduct creates a new menu item.
func (srv *productService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Creating product", slog.String("name", input.Name))

	if err := validateSizePrices(input.SizePrices); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price,
		SizePrices:  input.SizePrices,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to create product", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}

	return product, nil
}

// UpdateProduct applies the non-nil fields of the input to an existing menu item.
func (srv *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Updating product", slog.Any("productID", id))

	if input.SizePrices != nil {
		if err := validateSizePrices(input.SizePrices); err != nil {
			return nil, err
		}
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to find product for update")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.SizePrices != nil {
		product.SizePrices = input.SizePrices
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Any("productID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// DeleteProduct removes a menu item.
func (srv *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	srv.log(ctx).Info("Deleting product", slog.Any("productID", id))

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

// UploadProductImage stores a product photo and returns its path and public URL.
func (srv *productService) UploadProductImage(ctx context.Context, contentType string, content io.Reader) (*usecase.UploadImageOutput, error) {
	path, err := srv.storage.Upload(ctx, service.BucketProductImages, contentType, content)
	if err != nil {
		srv.log(ctx).Error("Failed to upload product image", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to upload product image")
	}

	url, err := srv.storage.PublicURL(ctx, service.BucketProductImages, path)
	if err != nil {
		srv.log(ctx).Warn("Failed to resolve product image URL", slog.String("path", path), slog.Any("error", err))
		url = ""
	}

	return &usecase.UploadImageOutput{
		Path: path,
		URL:  url,
	}, nil
}

// validateSizePrices rejects tier maps carrying unknown size codes or
// non-positive prices.
func validateSizePrices(sizePrices map[entity.Size]float64) error {
	for size, price := range sizePrices {
		if !size.IsValid() {
			return errors.Wrapf(domainerrors.ErrInvalidSize, "invalid size tier %q", size.String())
		}
		if price <= 0 {
			return errors.Wrapf(domainerrors.ErrValidationFailed, "non-positive price for size %q", size.String())
		}
	}

	return nil
}
