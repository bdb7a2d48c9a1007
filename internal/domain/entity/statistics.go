// Package entity contains the core business objects of the project.
package entity

import "time"

// OrderStatistics is the aggregated order-statistics snapshot shown on the
// admin dashboard. A new snapshot row is written whenever an order is created
// or changes status; readers fetch the latest row only.
type OrderStatistics struct {
	ID               int64     // Monotonically increasing snapshot id.
	TotalOrders      int64     // All orders ever placed.
	NewOrders        int64     // Orders currently in the New status.
	CookingOrders    int64     // Orders currently being prepared.
	DeliveringOrders int64     // Orders currently out for delivery.
	DeliveredOrders  int64     // Orders delivered to date.
	CancelledOrders  int64     // Orders cancelled to date.
	GrossRevenue     float64   // Sum of totals over non-cancelled orders.
	UpdatedAt        time.Time // When this snapshot was taken.
}
