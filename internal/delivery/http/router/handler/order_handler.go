package handler

import (
	"log/slog"
	"net/http"

	"munch/internal/delivery/http/middleware"
	"munch/internal/delivery/http/response"
	"munch/internal/domain/entity"
	"munch/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

type checkoutRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	Country    string `json:"country"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type paymentResultRequest struct {
	Succeeded bool `json:"succeeded"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout converts the authenticated user's cart into an order.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Checkout(c.Request().Context(), userID, &usecase.CheckoutInput{
		Shipping: entity.ShippingDetails{
			FullName:   req.FullName,
			Address:    req.Address,
			Country:    req.Country,
			City:       req.City,
			PostalCode: req.PostalCode,
			Phone:      req.Phone,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Order placed successfully")
}

// ResolvePayment records the outcome of the client-side payment flow.
func (h *OrderHandler) ResolvePayment(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	var req paymentResultRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment result input")
	}

	order, err := h.uc.ResolvePayment(c.Request().Context(), userID, &usecase.PaymentResultInput{
		OrderID:   orderID,
		Succeeded: req.Succeeded,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Payment result recorded")
}

// Get returns a single order with its item snapshots.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	order, err := h.uc.GetOrder(c.Request().Context(), userID, middleware.HasRole(c, entity.RoleAdmin.String()), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// ListMine lists the authenticated user's orders. The archived query flag
// switches between active and archived orders.
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	archived := c.QueryParam("archived") == "true"

	orders, err := h.uc.ListUserOrders(c.Request().Context(), userID, archived)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// GetQR renders the pickup QR code PNG for an order.
func (h *OrderHandler) GetQR(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	png, err := h.uc.GetOrderQR(c.Request().Context(), userID, middleware.HasRole(c, entity.RoleAdmin.String()), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ListAll lists every order for the admin dashboard.
func (h *OrderHandler) ListAll(c echo.Context) error {
	archived := c.QueryParam("archived") == "true"

	orders, err := h.uc.ListAllOrders(c.Request().Context(), archived)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// UpdateStatus moves an order to a new fulfilment status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	status, valid := entity.OrderStatusFromString(req.Status)
	if !valid {
		return response.BadRequest(c, "INVALID_INPUT", "Unknown order status")
	}

	order, err := h.uc.UpdateOrderStatus(c.Request().Context(), orderID, status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated")
}

// Statistics returns the latest order-statistics snapshot for the dashboard.
func (h *OrderHandler) Statistics(c echo.Context) error {
	stats, err := h.uc.GetStatistics(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "Statistics retrieved successfully")
}
