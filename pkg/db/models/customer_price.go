package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer price override rows. Exactly one is_current=true row should exist
// per (customer, item); historically that invariant was violated, so readers
// break ties by priority then recency instead of assuming it holds.

// CustomerMaterialPrice overrides a material's unit cost for one customer.
type CustomerMaterialPrice struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index:idx_customer_material"`
	MaterialID uuid.UUID       `gorm:"column:material_id;type:uuid;not null;index:idx_customer_material"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,4);not null"`
	Priority   int             `gorm:"column:priority;not null;default:0"`
	IsCurrent  bool            `gorm:"column:is_current;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// CustomerPrintingPrice overrides a printing process's unit price for one customer.
type CustomerPrintingPrice struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index:idx_customer_printing"`
	PrintingID uuid.UUID       `gorm:"column:printing_id;type:uuid;not null;index:idx_customer_printing"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,4);not null"`
	Priority   int             `gorm:"column:priority;not null;default:0"`
	IsCurrent  bool            `gorm:"column:is_current;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// CustomerFinishPrice overrides a finish's base cost for one customer.
type CustomerFinishPrice struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index:idx_customer_finish"`
	FinishID   uuid.UUID       `gorm:"column:finish_id;type:uuid;not null;index:idx_customer_finish"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,4);not null"`
	Priority   int             `gorm:"column:priority;not null;default:0"`
	IsCurrent  bool            `gorm:"column:is_current;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
