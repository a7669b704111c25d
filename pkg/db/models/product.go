package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a shop inventory item. Stock moves only through approved
// PURCHASE transactions or explicit admin adjustments and never goes negative.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Category      string          `gorm:"column:category;not null" json:"category"`
	SellPrice     decimal.Decimal `gorm:"column:sell_price;type:numeric(18,2);not null" json:"sell_price"`
	CostPrice     decimal.Decimal `gorm:"column:cost_price;type:numeric(18,2);not null" json:"cost_price"`
	Stock         int             `gorm:"column:stock;not null;default:0" json:"stock"`
	SKU           *string         `gorm:"column:sku" json:"sku,omitempty"`
	Description   *string         `gorm:"column:description" json:"description,omitempty"`
	SupplierPhone *string         `gorm:"column:supplier_phone" json:"supplier_phone,omitempty"`
	ImageURL      *string         `gorm:"column:image_url" json:"image_url,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
