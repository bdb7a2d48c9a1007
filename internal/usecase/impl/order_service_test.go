package impl

import (
	"context"
	"testing"

	"munch/internal/domain/entity"
	domainerrors "munch/internal/domain/errors"
	"munch/internal/domain/repository"
	"munch/internal/domain/service"
	"munch/internal/infra/cartstore"
	mockRepo "munch/internal/mocks/repository"
	mockSvc "munch/internal/mocks/service"
	"munch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderServiceFixtures holds all test dependencies for order service tests.
// The cart store is the real in-memory implementation so checkout can consume
// genuine cart state.
type orderServiceFixtures struct {
	service     usecase.OrderUsecase
	txManager   *mockRepo.MockTransactionManager
	orderRepo   *mockRepo.MockOrderRepository
	userRepo    *mockRepo.MockUserRepository
	productRepo *mockRepo.MockProductRepository
	cartStore   repository.CartStore
	payment     *mockSvc.MockPaymentService
	publisher   *mockSvc.MockEventPublisher
	notifier    *mockSvc.MockNotificationService
	qrcode      *mockSvc.MockQRCodeService
}

func createTestOrderService(t *testing.T, withPayments bool) orderServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	store := cartstore.NewMemoryStore()
	publisher := mockSvc.NewMockEventPublisher(t)
	notifier := mockSvc.NewMockNotificationService(t)
	qrcode := mockSvc.NewMockQRCodeService(t)

	params := OrderServiceParams{
		TxManager:   txManager,
		OrderRepo:   orderRepo,
		UserRepo:    userRepo,
		ProductRepo: productRepo,
		CartStore:   store,
		Publisher:   publisher,
		Notifier:    notifier,
		QRCode:      qrcode,
		Logger:      newDiscardLogger(),
	}

	var payment *mockSvc.MockPaymentService
	if withPayments {
		payment = mockSvc.NewMockPaymentService(t)
		params.Payment = payment
	}

	return orderServiceFixtures{
		service:     NewOrderService(params),
		txManager:   txManager,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		cartStore:   store,
		payment:     payment,
		publisher:   publisher,
		notifier:    notifier,
		qrcode:      qrcode,
	}
}

// seedCart puts a single line into the user's cart and returns the seeded
// product and the cart total.
func seedCart(t *testing.T, store repository.CartStore, userID uuid.UUID) (*entity.Product, float64) {
	t.Helper()

	product := newTestProduct("Quattro Formaggi", 14.00)
	cart, err := store.Mutate(context.Background(), userID, func(cart *entity.Cart) {
		cart.AddItem(entity.NewCartItem(product, entity.SizeL, 2))
	})
	require.NoError(t, err)

	return product, cart.Total()
}

// expectCartProducts serves the menu lookup checkout performs on the cart's
// product ids.
func expectCartProducts(ctx context.Context, productRepo *mockRepo.MockProductRepository, products ...*entity.Product) {
	ids := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}

	productRepo.EXPECT().FindByIDs(ctx, ids).Return(products, nil)
}

// expectTransaction routes txManager.Execute through a factory that serves the
// given order repository.
func expectTransaction(t *testing.T, txManager *mockRepo.MockTransactionManager, orderRepo *mockRepo.MockOrderRepository) {
	t.Helper()

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().OrderRepo().Return(orderRepo)

	txManager.EXPECT().Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})
}

func TestOrderService_Checkout_Success(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	userID := uuid.New()
	product, total := seedCart(t, fx.cartStore, userID)

	var createdOrder *entity.Order
	var appendedStats *entity.OrderStatistics

	expectCartProducts(ctx, fx.productRepo, product)
	expectTransaction(t, fx.txManager, fx.orderRepo)
	fx.orderRepo.EXPECT().Create(ctx, mock.Anything).
		Run(func(_ context.Context, order *entity.Order) {
			createdOrder = order
		}).
		Return(nil)
	fx.orderRepo.EXPECT().LatestStatistics(ctx).Return(nil, repository.ErrStatisticsNotFound)
	fx.orderRepo.EXPECT().AppendStatistics(ctx, mock.Anything).
		Run(func(_ context.Context, stats *entity.OrderStatistics) {
			appendedStats = stats
		}).
		Return(nil)
	fx.publisher.EXPECT().PublishOrderEvent(ctx, mock.Anything).Return(nil).Times(2)

	output, err := fx.service.Checkout(ctx, userID, &usecase.CheckoutInput{
		Shipping: entity.ShippingDetails{FullName: "Test Shopper", Address: "1 Main St"},
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Nil(t, output.Payment)

	require.NotNil(t, createdOrder)
	assert.Equal(t, userID, createdOrder.UserID)
	assert.Equal(t, entity.OrderStatusNew, createdOrder.Status)
	assert.InDelta(t, total, createdOrder.Total, 0.0001)
	assert.Len(t, createdOrder.Items, 1)
	assert.Empty(t, createdOrder.PaymentIntentID)

	require.NotNil(t, appendedStats)
	assert.EqualValues(t, 1, appendedStats.TotalOrders)
	assert.EqualValues(t, 1, appendedStats.NewOrders)
	assert.InDelta(t, total, appendedStats.GrossRevenue, 0.0001)

	// Cash-only checkout drains the cart straight away.
	cart, err := fx.cartStore.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	fx := createTestOrderService(t, false)

	output, err := fx.service.Checkout(context.Background(), uuid.New(), &usecase.CheckoutInput{})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty))
}

func TestOrderService_Checkout_RemovedProduct(t *testing.T) {
	fx := createTestOrderService(t, true)

	ctx := context.Background()
	userID := uuid.New()
	product, _ := seedCart(t, fx.cartStore, userID)

	// The product was deleted from the menu after it was added to the cart.
	fx.productRepo.EXPECT().FindByIDs(ctx, []uuid.UUID{product.ID}).
		Return([]*entity.Product{}, nil)

	output, err := fx.service.Checkout(ctx, userID, &usecase.CheckoutInput{})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))

	// No intent is created and the cart is kept for the shopper to fix up.
	cart, err := fx.cartStore.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestOrderService_Checkout_WithPayment(t *testing.T) {
	fx := createTestOrderService(t, true)

	ctx := context.Background()
	userID := uuid.New()
	product, total := seedCart(t, fx.cartStore, userID)

	expectCartProducts(ctx, fx.productRepo, product)

	intent := &service.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}
	fx.payment.EXPECT().CreateIntent(ctx, int64(total*100), "usd").Return(intent, nil)

	var createdOrder *entity.Order

	expectTransaction(t, fx.txManager, fx.orderRepo)
	fx.orderRepo.EXPECT().Create(ctx, mock.Anything).
		Run(func(_ context.Context, order *entity.Order) {
			createdOrder = order
		}).
		Return(nil)
	fx.orderRepo.EXPECT().LatestStatistics(ctx).Return(nil, repository.ErrStatisticsNotFound)
	fx.orderRepo.EXPECT().AppendStatistics(ctx, mock.Anything).Return(nil)
	fx.publisher.EXPECT().PublishOrderEvent(ctx, mock.Anything).Return(nil).Times(2)

	output, err := fx.service.Checkout(ctx, userID, &usecase.CheckoutInput{})

	require.NoError(t, err)
	assert.Equal(t, intent, output.Payment)
	assert.Equal(t, "pi_123", createdOrder.PaymentIntentID)

	// Cart survives until the payment outcome is known.
	cart, err := fx.cartStore.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestOrderService_Checkout_IntentCreationFails(t *testing.T) {
	fx := createTestOrderService(t, true)

	ctx := context.Background()
	userID := uuid.New()
	product, _ := seedCart(t, fx.cartStore, userID)

	expectCartProducts(ctx, fx.productRepo, product)
	fx.payment.EXPECT().CreateIntent(ctx, mock.Anything, "usd").
		Return(nil, domainerrors.ErrPaymentUnavailable)

	output, err := fx.service.Checkout(ctx, userID, &usecase.CheckoutInput{})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentUnavailable))
}

func TestOrderService_Checkout_TransactionFailureCancelsIntent(t *testing.T) {
	fx := createTestOrderService(t, true)

	ctx := context.Background()
	userID := uuid.New()
	product, _ := seedCart(t, fx.cartStore, userID)

	expectCartProducts(ctx, fx.productRepo, product)

	intent := &service.PaymentIntent{ID: "pi_456", ClientSecret: "pi_456_secret"}
	fx.payment.EXPECT().CreateIntent(ctx, mock.Anything, "usd").Return(intent, nil)
	fx.payment.EXPECT().CancelIntent(ctx, "pi_456").Return(nil)

	fx.txManager.EXPECT().Execute(ctx, mock.Anything).Return(errors.New("deadlock detected"))

	output, err := fx.service.Checkout(ctx, userID, &usecase.CheckoutInput{})

	require.Error(t, err)
	assert.Nil(t, output)

	// The cart is untouched so the shopper can retry.
	cart, err := fx.cartStore.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestOrderService_ResolvePayment_Confirmed(t *testing.T) {
	fx := createTestOrderService(t, true)

	ctx := context.Background()
	userID := uuid.New()
	seedCart(t, fx.cartStore, userID)

	order := &entity.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Total:           30.00,
		Status:          entity.OrderStatusNew,
		PaymentIntentID: "pi_789",
	}
	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

	resolved, err := fx.service.ResolvePayment(ctx, userID, &usecase.PaymentResultInput{
		OrderID:   order.ID,
		Succeeded: true,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusNew, resolved.Status)

	cart, err := fx.cartStore.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestOrderService_ResolvePayment_FailedCancelsOrder(t *testing.T) {
	fx := createTestOrderService(t, true)

	ctx := context.Background()
	userID := uuid.New()
	seedCart(t, fx.cartStore, userID)

	order := &entity.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Total:           30.00,
		Status:          entity.OrderStatusNew,
		PaymentIntentID: "pi_789",
	}
	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

	var appendedStats *entity.OrderStatistics

	expectTransaction(t, fx.txManager, fx.orderRepo)
	fx.orderRepo.EXPECT().UpdateStatus(ctx, order.ID, entity.OrderStatusCancelled).Return(nil)
	fx.orderRepo.EXPECT().LatestStatistics(ctx).
		Return(&entity.OrderStatistics{ID: 7, TotalOrders: 3, NewOrders: 1, GrossRevenue: 90.00}, nil)
	fx.orderRepo.EXPECT().AppendStatistics(ctx, mock.Anything).
		Run(func(_ context.Context, stats *entity.OrderStatistics) {
			appendedStats = stats
		}).
		Return(nil)

	fx.payment.EXPECT().CancelIntent(ctx, "pi_789").Return(nil)
	fx.publisher.EXPECT().PublishOrderEvent(ctx, mock.Anything).Return(nil).Times(2)

	cancelled, err := fx.service.ResolvePayment(ctx, userID, &usecase.PaymentResultInput{
		OrderID:   order.ID,
		Succeeded: false,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)

	require.NotNil(t, appendedStats)
	assert.EqualValues(t, 0, appendedStats.ID)
	assert.EqualValues(t, 3, appendedStats.TotalOrders)
	assert.EqualValues(t, 0, appendedStats.NewOrders)
	assert.EqualValues(t, 1, appendedStats.CancelledOrders)
	assert.InDelta(t, 60.00, appendedStats.GrossRevenue, 0.0001)

	// The shopper keeps the cart for a retry.
	cart, err := fx.cartStore.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestOrderService_ResolvePayment_SettledOrder(t *testing.T) {
	fx := createTestOrderService(t, true)

	ctx := context.Background()
	userID := uuid.New()

	order := &entity.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: entity.OrderStatusCancelled,
	}
	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

	resolved, err := fx.service.ResolvePayment(ctx, userID, &usecase.PaymentResultInput{
		OrderID:   order.ID,
		Succeeded: true,
	})

	require.Error(t, err)
	assert.Nil(t, resolved)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderImmutable))
}

func TestOrderService_GetOrder_ForbiddenForOtherUser(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderStatusNew}

	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil).Times(2)

	fetched, err := fx.service.GetOrder(ctx, uuid.New(), false, order.ID)
	require.Error(t, err)
	assert.Nil(t, fetched)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	// Admins may inspect any order.
	fetched, err = fx.service.GetOrder(ctx, uuid.New(), true, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, fetched)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	orderID := uuid.New()

	fx.orderRepo.EXPECT().FindByID(ctx, orderID).Return(nil, repository.ErrOrderNotFound)

	fetched, err := fx.service.GetOrder(ctx, uuid.New(), false, orderID)

	require.Error(t, err)
	assert.Nil(t, fetched)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestOrderService_UpdateOrderStatus_Success(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	owner := newTestUser(entity.RoleUser)
	owner.Profile.FCMToken = "fcm-token-1"

	order := &entity.Order{
		ID:     uuid.New(),
		UserID: owner.ID,
		Total:  25.00,
		Status: entity.OrderStatusNew,
	}
	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

	var appendedStats *entity.OrderStatistics

	expectTransaction(t, fx.txManager, fx.orderRepo)
	fx.orderRepo.EXPECT().UpdateStatus(ctx, order.ID, entity.OrderStatusCooking).Return(nil)
	fx.orderRepo.EXPECT().LatestStatistics(ctx).
		Return(&entity.OrderStatistics{ID: 4, TotalOrders: 1, NewOrders: 1, GrossRevenue: 25.00}, nil)
	fx.orderRepo.EXPECT().AppendStatistics(ctx, mock.Anything).
		Run(func(_ context.Context, stats *entity.OrderStatistics) {
			appendedStats = stats
		}).
		Return(nil)

	fx.publisher.EXPECT().PublishOrderEvent(ctx, mock.Anything).Return(nil).Times(2)
	fx.userRepo.EXPECT().FindByID(ctx, owner.ID).Return(owner, nil)
	fx.notifier.EXPECT().SendPush(ctx, mock.Anything).
		Run(func(_ context.Context, msg *service.PushMessage) {
			assert.Equal(t, "fcm-token-1", msg.Token)
			assert.Equal(t, order.ID.String(), msg.Data["order_id"])
			assert.Equal(t, "Cooking", msg.Data["status"])
		}).
		Return(nil)

	updated, err := fx.service.UpdateOrderStatus(ctx, order.ID, entity.OrderStatusCooking)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCooking, updated.Status)

	require.NotNil(t, appendedStats)
	assert.EqualValues(t, 0, appendedStats.NewOrders)
	assert.EqualValues(t, 1, appendedStats.CookingOrders)
	assert.InDelta(t, 25.00, appendedStats.GrossRevenue, 0.0001)
}

func TestOrderService_UpdateOrderStatus_SameStatusIsNoOp(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderStatusCooking}

	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

	updated, err := fx.service.UpdateOrderStatus(ctx, order.ID, entity.OrderStatusCooking)

	require.NoError(t, err)
	assert.Equal(t, order, updated)
}

func TestOrderService_UpdateOrderStatus_TerminalOrder(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderStatusDelivered}

	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

	updated, err := fx.service.UpdateOrderStatus(ctx, order.ID, entity.OrderStatusCooking)

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderImmutable))
}

func TestOrderService_UpdateOrderStatus_InvalidStatus(t *testing.T) {
	fx := createTestOrderService(t, false)

	updated, err := fx.service.UpdateOrderStatus(context.Background(), uuid.New(), entity.OrderStatus("Teleporting"))

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidOrderStatus))
}

func TestOrderService_GetStatistics_EmptyStore(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	fx.orderRepo.EXPECT().LatestStatistics(ctx).Return(nil, repository.ErrStatisticsNotFound)

	stats, err := fx.service.GetStatistics(ctx)

	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.GrossRevenue)
}

func TestOrderService_ListUserOrders(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	userID := uuid.New()
	orders := []*entity.Order{{ID: uuid.New(), UserID: userID, Status: entity.OrderStatusDelivered}}

	fx.orderRepo.EXPECT().FindByUser(ctx, userID, true).Return(orders, nil)

	listed, err := fx.service.ListUserOrders(ctx, userID, true)

	require.NoError(t, err)
	assert.Equal(t, orders, listed)
}

func TestOrderService_GetOrderQR(t *testing.T) {
	fx := createTestOrderService(t, false)

	ctx := context.Background()
	userID := uuid.New()
	order := &entity.Order{ID: uuid.New(), UserID: userID, Status: entity.OrderStatusNew}
	png := []byte{0x89, 0x50, 0x4e, 0x47}

	fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)
	fx.qrcode.EXPECT().GenerateOrderQR(order.ID).Return(png, nil)

	data, err := fx.service.GetOrderQR(ctx, userID, false, order.ID)

	require.NoError(t, err)
	assert.Equal(t, png, data)
}
