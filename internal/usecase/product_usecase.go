// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"io"

	"munch/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductUsecase defines the interface for menu operations. Reads are open to
// every shopper; mutations are reserved for admins and enforced at the
// delivery layer.
type ProductUsecase interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UploadProductImage(ctx context.Context, contentType string, content io.Reader) (*UploadImageOutput, error)
}

// --- Input DTOs ---

// CreateProductInput defines the data required to create a menu item.
type CreateProductInput struct {
	Name        string
	Description string
	Image       string
	Price       float64
	SizePrices  map[entity.Size]float64
}

// UpdateProductInput defines the data required to update a menu item.
// Nil fields are left unchanged; a non-nil SizePrices replaces the tier map.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Image       *string
	Price       *float64
	SizePrices  map[entity.Size]float64
}

// --- Output DTOs ---

// UploadImageOutput returns the stored image's path and public URL.
type UploadImageOutput struct {
	Path string
	URL  string
}
