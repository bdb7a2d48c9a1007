// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"munch/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatisticsNotFound is returned when no statistics snapshot exists yet.
	ErrStatisticsNotFound = errors.New("order statistics not found")
)

// OrderRepository defines the standard operations for order persistence.
// Creating an order persists its item snapshots in the same statement batch;
// callers wanting full atomicity run Create inside the TransactionManager.
type OrderRepository interface {
	// Create persists a new order together with its item snapshots.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order by id, including its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByUser retrieves a user's orders, newest first, filtered by the
	// archived flag (active statuses vs Delivered/Cancelled).
	FindByUser(ctx context.Context, userID uuid.UUID, archived bool) ([]*entity.Order, error)

	// FindByArchived retrieves all orders, newest first, filtered by the archived flag.
	FindByArchived(ctx context.Context, archived bool) ([]*entity.Order, error)

	// UpdateStatus moves an order to the given status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	// LatestStatistics retrieves the most recent order-statistics snapshot.
	LatestStatistics(ctx context.Context) (*entity.OrderStatistics, error)

	// AppendStatistics writes a new order-statistics snapshot row.
	AppendStatistics(ctx context.Context, stats *entity.OrderStatistics) error
}
