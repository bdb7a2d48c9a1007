// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a menu item offered by the store. Products are created and
// maintained by admins and are read-only from the shopper's perspective.
type Product struct {
	ID          uuid.UUID        // The unique identifier for the product.
	Name        string           // Display name shown on the menu.
	Description string           // Longer description shown on the detail view.
	Image       string           // Storage path of the product image inside the product-images bucket.
	Price       float64          // Base price, used when no size tier matches.
	SizePrices  map[Size]float64 // Optional per-size price tiers (S/M/L/XL). Empty means single-priced.
	CreatedAt   time.Time        // Timestamp of when this product was created.
	UpdatedAt   time.Time        // Timestamp of the last modification.
}

// PriceFor returns the unit price of the product for the given size.
// Falls back to the base price when the product has no tier for that size.
func (p *Product) PriceFor(size Size) float64 {
	if price, ok := p.SizePrices[size]; ok {
		return price
	}

	return p.Price
}
