// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"munch/internal/domain/entity"
	"munch/internal/domain/service"

	"github.com/google/uuid"
)

// OrderUsecase defines the interface for checkout, order tracking and the
// admin dashboard operations.
type OrderUsecase interface {
	// Checkout converts the user's cart into a persisted order. The order,
	// its item snapshots and the statistics bump are written in a single
	// transaction. When payments are configured the returned output carries
	// a payment intent for the client-side payment sheet.
	Checkout(ctx context.Context, userID uuid.UUID, input *CheckoutInput) (*CheckoutOutput, error)

	// ResolvePayment records the outcome of the hosted payment sheet for an
	// order. A failed or abandoned payment cancels the order and leaves the
	// cart untouched; a confirmed payment clears the cart.
	ResolvePayment(ctx context.Context, userID uuid.UUID, input *PaymentResultInput) (*entity.Order, error)

	// GetOrder fetches a single order with its items. Non-admins may only
	// read their own orders.
	GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*entity.Order, error)

	// ListUserOrders lists the user's own orders, newest first, split by the
	// archived flag.
	ListUserOrders(ctx context.Context, userID uuid.UUID, archived bool) ([]*entity.Order, error)

	// ListAllOrders lists every order for the admin dashboard, newest first,
	// split by the archived flag.
	ListAllOrders(ctx context.Context, archived bool) ([]*entity.Order, error)

	// UpdateOrderStatus moves an order to a new fulfilment status. Terminal
	// orders are immutable.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)

	// GetStatistics returns the latest order-statistics snapshot.
	GetStatistics(ctx context.Context) (*entity.OrderStatistics, error)

	// GetOrderQR renders the pickup QR code PNG for an order. Non-admins may
	// only fetch codes for their own orders.
	GetOrderQR(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) ([]byte, error)
}

// --- Input DTOs ---

// CheckoutInput defines the data collected by the checkout form.
type CheckoutInput struct {
	Shipping entity.ShippingDetails
}

// PaymentResultInput reports the outcome of the client-side payment flow.
type PaymentResultInput struct {
	OrderID   uuid.UUID
	Succeeded bool
}

// --- Output DTOs ---

// CheckoutOutput returns the created order and, when payments are configured,
// the intent the storefront drives the payment sheet with.
type CheckoutOutput struct {
	Order   *entity.Order
	Payment *service.PaymentIntent
}
