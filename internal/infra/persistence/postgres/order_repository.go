// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"munch/internal/domain/entity"
	domainerrors "munch/internal/domain/errors"
	"munch/internal/domain/repository"
	"munch/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// Create persists a new order together with its item snapshots.
// GORM's Create with associations inserts orders and order_items in one batch;
// callers wanting full atomicity with statistics run this inside the TransactionManager.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid user or product reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	for idx := range order.Items {
		if idx < len(orderM.Items) {
			order.Items[idx].ID = orderM.Items[idx].ID
			order.Items[idx].OrderID = orderM.ID
		}
	}

	return nil
}

// FindByID retrieves a single order by id, including its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindByUser retrieves a user's orders, newest first, filtered by the archived flag.
func (repo *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID, archived bool) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status IN ?", userID, statusStrings(archived)).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by user")
	}

	return toOrderDomainSlice(orderModels), nil
}

// FindByArchived retrieves all orders, newest first, filtered by the archived flag.
func (repo *orderRepository) FindByArchived(ctx context.Context, archived bool) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ?", statusStrings(archived)).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by archived flag")
	}

	return toOrderDomainSlice(orderModels), nil
}

// UpdateStatus moves an order to the given status.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", status.String())

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// LatestStatistics retrieves the most recent order-statistics snapshot.
func (repo *orderRepository) LatestStatistics(ctx context.Context) (*entity.OrderStatistics, error) {
	var statsM model.OrderStatisticsModel

	if err := repo.db.WithContext(ctx).
		Order("id DESC").
		First(&statsM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStatisticsNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest order statistics")
	}

	return toStatisticsDomain(&statsM), nil
}

// AppendStatistics writes a new order-statistics snapshot row.
func (repo *orderRepository) AppendStatistics(ctx context.Context, stats *entity.OrderStatistics) error {
	statsM := fromStatisticsDomain(stats)

	if err := repo.db.WithContext(ctx).Create(statsM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append order statistics")
	}

	stats.ID = statsM.ID
	stats.UpdatedAt = statsM.UpdatedAt

	return nil
}

// statusStrings returns the status values matching the archived flag.
func statusStrings(archived bool) []string {
	var statuses []entity.OrderStatus
	if archived {
		statuses = entity.ArchivedOrderStatuses()
	} else {
		statuses = entity.ActiveOrderStatuses()
	}

	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, status.String())
	}

	return values
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for idx := range data.Items {
		itemM := &data.Items[idx]
		items = append(items, entity.OrderItem{
			ID:        itemM.ID,
			OrderID:   itemM.OrderID,
			ProductID: itemM.ProductID,
			Size:      entity.Size(itemM.Size),
			Quantity:  itemM.Quantity,
			UnitPrice: itemM.UnitPrice,
		})
	}

	return &entity.Order{
		ID:       data.ID,
		UserID:   data.UserID,
		Total:    data.Total,
		Currency: data.Currency,
		Status:   entity.OrderStatus(data.Status),
		Shipping: entity.ShippingDetails{
			FullName:   data.FullName,
			Address:    data.Address,
			Country:    data.Country,
			City:       data.City,
			PostalCode: data.PostalCode,
			Phone:      data.Phone,
		},
		PaymentIntentID: data.PaymentIntentID,
		Items:           items,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// toOrderDomainSlice converts a slice of GORM OrderModels to domain entities.
func toOrderDomainSlice(data []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(data))
	for _, orderM := range data {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for idx := range data.Items {
		item := &data.Items[idx]
		items = append(items, model.OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Size:      item.Size.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return &model.OrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Total:           data.Total,
		Currency:        data.Currency,
		Status:          data.Status.String(),
		FullName:        data.Shipping.FullName,
		Address:         data.Shipping.Address,
		Country:         data.Shipping.Country,
		City:            data.Shipping.City,
		PostalCode:      data.Shipping.PostalCode,
		Phone:           data.Shipping.Phone,
		PaymentIntentID: data.PaymentIntentID,
		Items:           items,
	}
}

// toStatisticsDomain converts a GORM OrderStatisticsModel to a domain entity.
func toStatisticsDomain(data *model.OrderStatisticsModel) *entity.OrderStatistics {
	if data == nil {
		return nil
	}

	return &entity.OrderStatistics{
		ID:               data.ID,
		TotalOrders:      data.TotalOrders,
		NewOrders:        data.NewOrders,
		CookingOrders:    data.CookingOrders,
		DeliveringOrders: data.DeliveringOrders,
		DeliveredOrders:  data.DeliveredOrders,
		CancelledOrders:  data.CancelledOrders,
		GrossRevenue:     data.GrossRevenue,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromStatisticsDomain converts a domain OrderStatistics entity to a GORM model.
func fromStatisticsDomain(data *entity.OrderStatistics) *model.OrderStatisticsModel {
	if data == nil {
		return nil
	}

	return &model.OrderStatisticsModel{
		TotalOrders:      data.TotalOrders,
		NewOrders:        data.NewOrders,
		CookingOrders:    data.CookingOrders,
		DeliveringOrders: data.DeliveringOrders,
		DeliveredOrders:  data.DeliveredOrders,
		CancelledOrders:  data.CancelledOrders,
		GrossRevenue:     data.GrossRevenue,
	}
}
