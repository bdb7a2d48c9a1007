// Package entity contains the core business objects of the project.
package entity

import (
	"github.com/google/uuid"
)

// CartItem is a single line in a shopping cart. It carries a snapshot of the
// product taken at add time, so later price changes do not affect the cart.
type CartItem struct {
	ID          uuid.UUID // Generated identifier for this cart line.
	ProductID   uuid.UUID // The product this line refers to.
	ProductName string    // Denormalized product name at add time.
	UnitPrice   float64   // Denormalized unit price for the selected size at add time.
	Size        Size      // Selected size tier.
	Quantity    int       // Positive quantity; callers guarantee positivity on add.
}

// LineTotal returns the total for this single line.
func (i *CartItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// NewCartItem builds a cart line for a product and size, snapshotting the
// product's name and the unit price for that size.
func NewCartItem(product *Product, size Size, quantity int) CartItem {
	return CartItem{
		ID:          uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.PriceFor(size),
		Size:        size,
		Quantity:    quantity,
	}
}

// Cart is the session-scoped shopping cart aggregate: an ordered collection of
// cart lines. Mutations are pure in-memory bookkeeping; the total is always
// recomputed from the current lines rather than maintained incrementally.
// A Cart is not safe for concurrent use; the owning store serializes access.
type Cart struct {
	Items []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem merges the candidate into the cart. If a line with the same
// (product id, size) pair already exists its quantity is incremented by the
// candidate's quantity; otherwise the candidate is appended as a new line.
func (c *Cart) AddItem(candidate CartItem) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == candidate.ProductID && c.Items[idx].Size == candidate.Size {
			c.Items[idx].Quantity += candidate.Quantity

			return
		}
	}

	c.Items = append(c.Items, candidate)
}

// UpdateQuantity sets the quantity of the line matching the given item's own
// id and size. A non-positive quantity removes the line. Lines that do not
// match are left untouched; a miss is a no-op.
func (c *Cart) UpdateQuantity(item CartItem) {
	for idx := range c.Items {
		if c.Items[idx].ID != item.ID || c.Items[idx].Size != item.Size {
			continue
		}

		if item.Quantity <= 0 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)

			return
		}

		c.Items[idx].Quantity = item.Quantity

		return
	}
}

// RemoveItem removes the line with the given cart-item id, if present.
func (c *Cart) RemoveItem(id uuid.UUID) {
	for idx := range c.Items {
		if c.Items[idx].ID == id {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)

			return
		}
	}
}

// Total recomputes the cart total as the sum of line totals.
func (c *Cart) Total() float64 {
	var total float64
	for idx := range c.Items {
		total += c.Items[idx].LineTotal()
	}

	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Clone returns a deep copy of the cart so callers can hand out snapshots
// without exposing the live line slice.
func (c *Cart) Clone() *Cart {
	cloned := &Cart{}
	if len(c.Items) > 0 {
		cloned.Items = make([]CartItem, len(c.Items))
		copy(cloned.Items, c.Items)
	}

	return cloned
}
