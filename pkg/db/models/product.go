package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/pkg/enums"
)

// Product is the configurable catalog item the quoting engine prices.
// Catalog management owns the row; the pricing core only reads it.
type Product struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU              string                 `gorm:"column:sku;not null;uniqueIndex"`
	Name             string                 `gorm:"column:name;not null"`
	WidthMM          float64                `gorm:"column:width_mm;type:numeric(8,2);not null"`
	HeightMM         float64                `gorm:"column:height_mm;type:numeric(8,2);not null"`
	Tags             pq.StringArray         `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	CategoryID       *uuid.UUID             `gorm:"column:category_id;type:uuid"`
	Category         *Category              `gorm:"foreignKey:CategoryID"`
	PrintingID       *uuid.UUID             `gorm:"column:printing_id;type:uuid"`
	Printing         *Printing              `gorm:"foreignKey:PrintingID"`
	DefaultMarkup    *decimal.Decimal       `gorm:"column:default_markup;type:numeric(8,4)"`
	DefaultMargin    *decimal.Decimal       `gorm:"column:default_margin;type:numeric(8,4)"`
	RoundingStep     *decimal.Decimal       `gorm:"column:rounding_step;type:numeric(12,4)"`
	RoundingStrategy enums.RoundingStrategy `gorm:"column:rounding_strategy;type:rounding_strategy;not null;default:'nearest'"`
	MinOrderQty      int                    `gorm:"column:min_order_qty;not null;default:1"`
	MinOrderValue    *decimal.Decimal       `gorm:"column:min_order_value;type:numeric(12,4)"`
	IsActive         bool                   `gorm:"column:is_active;not null;default:true"`
	Materials        []ProductMaterial      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Finishes         []ProductFinish        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Dimensions       []ProductDimension     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OptionGroups     []ProductOptionGroup   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductMaterial joins a product to a material with the multipliers that
// turn a catalog unit cost into a per-order cost.
type ProductMaterial struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	MaterialID  uuid.UUID `gorm:"column:material_id;type:uuid;not null"`
	Material    *Material `gorm:"foreignKey:MaterialID"`
	QtyPerUnit  float64   `gorm:"column:qty_per_unit;type:numeric(10,4);not null;default:1"`
	WasteFactor float64   `gorm:"column:waste_factor;type:numeric(6,4);not null;default:0"`
	LossFactor  float64   `gorm:"column:loss_factor;type:numeric(6,4);not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductFinish joins a product to a default finishing operation.
type ProductFinish struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	FinishID   uuid.UUID `gorm:"column:finish_id;type:uuid;not null"`
	Finish     *Finish   `gorm:"foreignKey:FinishID"`
	QtyPerUnit float64   `gorm:"column:qty_per_unit;type:numeric(10,4);not null;default:1"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductDimension is a legacy size preset still referenced by older clients
// through the choice override fallback path.
type ProductDimension struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Label     string    `gorm:"column:label;not null"`
	WidthMM   float64   `gorm:"column:width_mm;type:numeric(8,2);not null"`
	HeightMM  float64   `gorm:"column:height_mm;type:numeric(8,2);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
