// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"math"

	"munch/config"
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

const defaultCurrency = "usd"

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	cartStore   repository.CartStore
	payment   service.PaymentService
	publisher service.EventPublisher
	notifier  service.NotificationService
	qrcode    service.QRCodeService
	currency  string
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartStore   repository.CartStore
	Payment   service.PaymentService
	Publisher service.EventPublisher
	Notifier  service.NotificationService
	QRCode    service.QRCodeService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	currency := defaultCurrency
	if params.Config != nil && params.Config.Payment != nil && params.Config.Payment.Currency != "" {
		currency = params.Config.Payment.Currency
	}

	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		userRepo:    params.UserRepo,
		productRepo: params.ProductRepo,
		cartStore:   params.CartStore,
		payment:     params.Payment,
		publisher:   params.Publisher,
		notifier:    params.Notifier,
		qrcode:      params.QRCode,
		currency:    currency,
		logger:      params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout converts the user's cart into a persisted order. The order, its
// item snapshots and the statistics bump are committed in a single
// transaction; nothing is written when any step fails. The cart is cleared
// immediately for cash-only stores and kept until payment confirmation when
// payments are configured.
func (srv *orderService) Checkout(ctx context.Context, userID uuid.UUID, input *usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	srv.log(ctx).Info("Starting checkout", slog.Any("userID", userID))

	cart, err := srv.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart for checkout")
	}
	if cart.IsEmpty() {
		return nil, errors.Wrap(domainerrors.ErrCartEmpty, "cannot check out an empty cart")
	}

	if err := srv.validateCartProducts(ctx, cart); err != nil {
		return nil, err
	}

	total := cart.Total()

	// The intent is created before the transaction so a rejected payment
	// platform leaves no order behind.
	var intent *service.PaymentIntent
	if srv.payment != nil {
		intent, err = srv.payment.CreateIntent(ctx, minorUnits(total), srv.currency)
		if err != nil {
			srv.log(ctx).Warn("Payment intent creation failed during checkout", slog.Any("userID", userID), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to create payment intent")
		}
	}

	order := &entity.Order{
		UserID:   userID,
		Total:    total,
		Currency: srv.currency,
		Status:   entity.OrderStatusNew,
		Shipping: input.Shipping,
		Items:    entity.OrderItemsFromCart(uuid.Nil, cart),
	}
	if intent != nil {
		order.PaymentIntentID = intent.ID
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		return bumpStatistics(ctx, orderRepo, func(stats *entity.OrderStatistics) {
			stats.TotalOrders++
			addToBucket(stats, entity.OrderStatusNew, 1)
			stats.GrossRevenue += order.Total
		})
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute checkout transaction", slog.Any("userID", userID), slog.Any("error", err))

		if intent != nil {
			srv.cancelIntentQuietly(ctx, intent.ID)
		}

		return nil, errors.Wrap(err, "failed to execute checkout transaction")
	}

	if srv.payment == nil {
		if err := srv.cartStore.Clear(ctx, userID); err != nil {
			srv.log(ctx).Warn("Failed to clear cart after checkout", slog.Any("userID", userID), slog.Any("error", err))
		}
	}

	srv.publishOrderEvent(ctx, service.EventKindInsert, order)

	srv.log(ctx).Info("Checkout completed",
		slog.Any("userID", userID),
		slog.Any("orderID", order.ID),
		slog.Float64("total", order.Total))

	return &usecase.CheckoutOutput{
		Order:   order,
		Payment: intent,
	}, nil
}

// ResolvePayment records the outcome of the client-side payment flow. A
// confirmed payment clears the cart; a failed or abandoned one cancels the
// order and leaves the cart untouched so the shopper can retry.
func (srv *orderService) ResolvePayment(ctx context.Context, userID uuid.UUID, input *usecase.PaymentResultInput) (*entity.Order, error) {
	order, err := srv.loadOwnedOrder(ctx, userID, false, input.OrderID)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, errors.Wrap(domainerrors.ErrOrderImmutable, "order already settled")
	}

	if input.Succeeded {
		if err := srv.cartStore.Clear(ctx, userID); err != nil {
			srv.log(ctx).Warn("Failed to clear cart after payment", slog.Any("userID", userID), slog.Any("error", err))
		}

		srv.log(ctx).Info("Payment confirmed", slog.Any("orderID", order.ID))

		return order, nil
	}

	cancelled, err := srv.transitionOrder(ctx, order, entity.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}

	if srv.payment != nil && order.PaymentIntentID != "" {
		srv.cancelIntentQuietly(ctx, order.PaymentIntentID)
	}

	srv.publishOrderEvent(ctx, service.EventKindUpdate, cancelled)

	srv.log(ctx).Info("Payment failed, order cancelled", slog.Any("orderID", order.ID))

	return cancelled, nil
}

// GetOrder fetches a single order with its items, enforcing ownership for
// non-admins.
func (srv *orderService) GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*entity.Order, error) {
	return srv.loadOwnedOrder(ctx, userID, isAdmin, orderID)
}

// ListUserOrders lists the user's own orders filtered by the archived flag.
func (srv *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID, archived bool) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByUser(ctx, userID, archived)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user orders")
	}

	return orders, nil
}

// ListAllOrders lists every order filtered by the archived flag.
func (srv *orderService) ListAllOrders(ctx context.Context, archived bool) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByArchived(ctx, archived)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// UpdateOrderStatus moves an order to a new fulfilment status, bumps the
// statistics snapshot and fans out the change to realtime subscribers and the
// customer's device.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrInvalidOrderStatus, "invalid order status %q", status.String())
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to find order for status update")
	}

	// Repeating the current status is a harmless no-op.
	if order.Status == status {
		return order, nil
	}

	updated, err := srv.transitionOrder(ctx, order, status)
	if err != nil {
		return nil, err
	}

	srv.publishOrderEvent(ctx, service.EventKindUpdate, updated)
	srv.notifyStatusChange(ctx, updated)

	srv.log(ctx).Info("Order status updated",
		slog.Any("orderID", orderID),
		slog.String("from", order.Status.String()),
		slog.String("to", status.String()))

	return updated, nil
}

// GetStatistics returns the latest order-statistics snapshot. A store with no
// orders yet gets an all-zero snapshot.
func (srv *orderService) GetStatistics(ctx context.Context) (*entity.OrderStatistics, error) {
	stats, err := srv.orderRepo.LatestStatistics(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrStatisticsNotFound) {
			return &entity.OrderStatistics{}, nil
		}

		return nil, errors.Wrap(err, "failed to load order statistics")
	}

	return stats, nil
}

// GetOrderQR renders the pickup QR code PNG for an order.
func (srv *orderService) GetOrderQR(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.loadOwnedOrder(ctx, userID, isAdmin, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateOrderQR(order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate order QR code")
	}

	return png, nil
}

// loadOwnedOrder fetches an order and enforces that non-admin callers own it.
func (srv *orderService) loadOwnedOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if !isAdmin && order.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}

	return order, nil
}

// transitionOrder writes the status change and the statistics bump in one
// transaction and returns the order with the new status applied.
func (srv *orderService) transitionOrder(ctx context.Context, order *entity.Order, target entity.OrderStatus) (*entity.Order, error) {
	if !order.CanTransitionTo(target) {
		return nil, errors.Wrapf(domainerrors.ErrOrderImmutable, "order cannot move from %q to %q", order.Status.String(), target.String())
	}

	from := order.Status

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		if err := orderRepo.UpdateStatus(ctx, order.ID, target); err != nil {
			return errors.Wrap(err, "failed to update order status")
		}

		return bumpStatistics(ctx, orderRepo, func(stats *entity.OrderStatistics) {
			addToBucket(stats, from, -1)
			addToBucket(stats, target, 1)
			if target == entity.OrderStatusCancelled {
				stats.GrossRevenue -= order.Total
			}
		})
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute status transition transaction",
			slog.Any("orderID", order.ID),
			slog.String("target", target.String()),
			slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute status transition transaction")
	}

	updated := *order
	updated.Status = target

	return &updated, nil
}

// validateCartProducts rejects checkout when any product in the cart has been
// taken off the menu since it was added. Runs before the payment intent is
// created so a stale cart never places a hold.
func (srv *orderService) validateCartProducts(ctx context.Context, cart *entity.Cart) error {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	seen := make(map[uuid.UUID]struct{}, len(cart.Items))
	for idx := range cart.Items {
		if _, ok := seen[cart.Items[idx].ProductID]; ok {
			continue
		}
		seen[cart.Items[idx].ProductID] = struct{}{}
		ids = append(ids, cart.Items[idx].ProductID)
	}

	products, err := srv.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "failed to verify cart products")
	}
	if len(products) != len(ids) {
		return errors.Wrap(domainerrors.ErrProductNotFound, "cart references a product no longer on the menu")
	}

	return nil
}

// cancelIntentQuietly voids a payment intent without failing the caller.
func (srv *orderService) cancelIntentQuietly(ctx context.Context, intentID string) {
	if err := srv.payment.CancelIntent(ctx, intentID); err != nil {
		srv.log(ctx).Warn("Failed to cancel payment intent", slog.String("intentID", intentID), slog.Any("error", err))
	}
}

// bumpStatistics reads the latest snapshot, applies the mutation and appends
// the result as a new snapshot row. Must run inside a transaction alongside
// the order write it accounts for.
func bumpStatistics(ctx context.Context, orderRepo repository.OrderRepository, mutate func(*entity.OrderStatistics)) error {
	latest, err := orderRepo.LatestStatistics(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrStatisticsNotFound) {
			return errors.Wrap(err, "failed to load statistics for bump")
		}
		latest = &entity.OrderStatistics{}
	}

	next := *latest
	next.ID = 0
	mutate(&next)

	return errors.Wrap(orderRepo.AppendStatistics(ctx, &next), "failed to append statistics snapshot")
}

// addToBucket adjusts the per-status counter matching the given status.
func addToBucket(stats *entity.OrderStatistics, status entity.OrderStatus, delta int64) {
	switch status {
	case entity.OrderStatusCooking:
		stats.CookingOrders += delta
	case entity.OrderStatusDelivering:
		stats.DeliveringOrders += delta
	case entity.OrderStatusDelivered:
		stats.DeliveredOrders += delta
	case entity.OrderStatusCancelled:
		stats.CancelledOrders += delta
	default:
		stats.NewOrders += delta
	}
}

// publishOrderEvent fans the change out to the realtime pipeline. Delivery is
// best-effort; a publish failure never fails the request.
func (srv *orderService) publishOrderEvent(ctx context.Context, kind string, order *entity.Order) {
	if srv.publisher == nil {
		return
	}

	requestID := deliverycontext.GetRequestIDFromContext(ctx)

	orderEvent := &service.OrderEvent{
		RequestID: requestID,
		Channel:   service.ChannelOrders,
		Kind:      kind,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    order.Status.String(),
	}
	if err := srv.publisher.PublishOrderEvent(ctx, orderEvent); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.Any("orderID", order.ID), slog.Any("error", err))
	}

	statsEvent := &service.OrderEvent{
		RequestID: requestID,
		Channel:   service.ChannelOrderStatistics,
		Kind:      service.EventKindUpdate,
	}
	if err := srv.publisher.PublishOrderEvent(ctx, statsEvent); err != nil {
		srv.log(ctx).Warn("Failed to publish statistics event", slog.Any("error", err))
	}
}

// notifyStatusChange pushes the status change to the order owner's device
// when a token is registered. Best-effort.
func (srv *orderService) notifyStatusChange(ctx context.Context, order *entity.Order) {
	if srv.notifier == nil {
		return
	}

	owner, err := srv.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		srv.log(ctx).Warn("Failed to load order owner for push", slog.Any("orderID", order.ID), slog.Any("error", err))

		return
	}
	if owner.Profile == nil || owner.Profile.FCMToken == "" {
		return
	}

	msg := &service.PushMessage{
		Token: owner.Profile.FCMToken,
		Title: "Order update",
		Body:  "Your order is now " + order.Status.String(),
		Data: map[string]string{
			"order_id": order.ID.String(),
			"status":   order.Status.String(),
		},
	}
	if err := srv.notifier.SendPush(ctx, msg); err != nil {
		srv.log(ctx).Warn("Failed to send push notification", slog.Any("orderID", order.ID), slog.Any("error", err))
	}
}

// minorUnits converts a decimal amount to the payment platform's integer
// minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
