// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	// OrderStatusNew indicates a freshly placed order awaiting the kitchen.
	OrderStatusNew OrderStatus = "New"
	// OrderStatusCooking indicates the order is being prepared.
	OrderStatusCooking OrderStatus = "Cooking"
	// OrderStatusDelivering indicates the order is out for delivery.
	OrderStatusDelivering OrderStatus = "Delivering"
	// OrderStatusDelivered indicates the order was handed to the customer. Terminal.
	OrderStatusDelivered OrderStatus = "Delivered"
	// OrderStatusCancelled indicates the order was cancelled, e.g. on payment failure. Terminal.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusCooking, OrderStatusDelivering, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsArchived reports whether the status belongs to the archived set.
// Delivered and Cancelled orders no longer appear on active dashboards.
func (s OrderStatus) IsArchived() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// IsTerminal reports whether the status permits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ActiveOrderStatuses lists the statuses of orders still in flight.
func ActiveOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusNew, OrderStatusCooking, OrderStatusDelivering}
}

// ArchivedOrderStatuses lists the statuses of archived orders.
func ArchivedOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusDelivered, OrderStatusCancelled}
}

// OrderStatusFromString converts a string to an OrderStatus, reporting validity.
func OrderStatusFromString(s string) (OrderStatus, bool) {
	status := OrderStatus(s)

	return status, status.IsValid()
}

// ShippingDetails carries the contact and delivery fields collected at checkout.
type ShippingDetails struct {
	FullName   string
	Address    string
	Country    string
	City       string
	PostalCode string
	Phone      string
}

// Order is a persisted purchase created from a cart at checkout time.
// Once Delivered the order is archived and no longer mutated.
type Order struct {
	ID              uuid.UUID       // The unique identifier for the order.
	UserID          uuid.UUID       // The customer who placed the order.
	Total           float64         // Cart total at checkout time.
	Currency        string          // ISO currency code the order was charged in.
	Status          OrderStatus     // Current fulfilment status.
	Shipping        ShippingDetails // Contact and delivery fields.
	PaymentIntentID string          // Identifier of the payment intent, empty when payments are disabled.
	Items           []OrderItem     // Immutable item snapshots, loaded on detail fetches.
	CreatedAt       time.Time       // Timestamp of when the order was placed.
	UpdatedAt       time.Time       // Timestamp of the last status change.
}

// OrderItem is an immutable snapshot of a cart line taken at checkout.
// Items are created in the same transaction as their order and are deleted
// only through cascading order deletion.
type OrderItem struct {
	ID        uuid.UUID // The unique identifier for the order item.
	OrderID   uuid.UUID // The order this item belongs to.
	ProductID uuid.UUID // The product that was ordered.
	Size      Size      // Size tier selected in the cart.
	Quantity  int       // Quantity selected in the cart.
	UnitPrice float64   // Unit price snapshotted from the cart line.
}

// CanTransitionTo reports whether an admin may move the order to the target
// status. Terminal orders are immutable; everything else is last-write-wins.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	if !target.IsValid() {
		return false
	}
	if o.Status.IsTerminal() {
		return false
	}

	return target != o.Status
}

// OrderItemsFromCart converts cart lines into order item snapshots bound to
// the given order id.
func OrderItemsFromCart(orderID uuid.UUID, cart *Cart) []OrderItem {
	items := make([]OrderItem, 0, len(cart.Items))
	for idx := range cart.Items {
		line := &cart.Items[idx]
		items = append(items, OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	return items
}
