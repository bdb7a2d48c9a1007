package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. Shipping fields are flattened columns.
type OrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Total           float64   `gorm:"type:numeric(10,2);not null"`
	Currency        string    `gorm:"type:varchar(3);not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	FullName        string    `gorm:"type:varchar(100)"`
	Address         string    `gorm:"type:varchar(255)"`
	Country         string    `gorm:"type:varchar(100)"`
	City            string    `gorm:"type:varchar(100)"`
	PostalCode      string    `gorm:"type:varchar(20)"`
	Phone           string    `gorm:"type:varchar(30)"`
	PaymentIntentID string    `gorm:"type:varchar(255)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table: immutable snapshots of cart
// lines taken at checkout.
type OrderItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Size      string    `gorm:"type:varchar(4);not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice float64   `gorm:"type:numeric(10,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderStatisticsModel mirrors the 'order_statistics' table. Each row is an
// append-only snapshot; readers fetch the highest id.
type OrderStatisticsModel struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	TotalOrders      int64   `gorm:"not null"`
	NewOrders        int64   `gorm:"not null"`
	CookingOrders    int64   `gorm:"not null"`
	DeliveringOrders int64   `gorm:"not null"`
	DeliveredOrders  int64   `gorm:"not null"`
	CancelledOrders  int64   `gorm:"not null"`
	GrossRevenue     float64 `gorm:"type:numeric(12,2);not null"`
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderStatisticsModel) TableName() string {
	return "order_statistics"
}
