package service

import (
	"context"

	"github.com/google/uuid"
)

// Event channels consumed by realtime subscribers.
const (
	// ChannelOrders carries order insert/update events.
	ChannelOrders = "orders"
	// ChannelOrderStatistics carries statistics snapshot updates.
	ChannelOrderStatistics = "order_statistics"
)

// Event kinds.
const (
	EventKindInsert = "INSERT"
	EventKindUpdate = "UPDATE"
)

// OrderEvent is the invalidate-style notification fanned out to connected
// clients when an order or the statistics snapshot changes. It carries ids
// and status only; receivers re-fetch whatever they display.
type OrderEvent struct {
	RequestID string    `json:"request_id,omitempty"` // For distributed tracing.
	Channel   string    `json:"channel"`              // orders or order_statistics.
	Kind      string    `json:"kind"`                 // INSERT or UPDATE.
	OrderID   uuid.UUID `json:"order_id,omitempty"`
	UserID    uuid.UUID `json:"user_id,omitempty"` // Owner of the order, for per-user filtering.
	Status    string    `json:"status,omitempty"`
}

// EventPublisher defines the interface for publishing order events to the
// realtime pipeline.
type EventPublisher interface {
	// PublishOrderEvent publishes an order event for asynchronous fan-out.
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
