package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. Size price tiers are stored as a
// JSONB document keyed by size code (S/M/L/XL).
type ProductModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name        string             `gorm:"type:varchar(100);not null"`
	Description string             `gorm:"type:text"`
	Image       string             `gorm:"type:varchar(255)"`
	Price       float64            `gorm:"type:numeric(10,2);not null"`
	SizePrices  map[string]float64 `gorm:"serializer:json;type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
