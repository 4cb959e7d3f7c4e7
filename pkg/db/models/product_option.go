package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductOptionGroup is a user-selectable variation axis (paper weight,
// lamination, size preset).
type ProductOptionGroup struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index"`
	Name      string                `gorm:"column:name;not null"`
	Required  bool                  `gorm:"column:required;not null;default:false"`
	Position  int                   `gorm:"column:position;not null;default:0"`
	Choices   []ProductOptionChoice `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductOptionChoice is one pick inside a group. A choice may swap the
// material variant, add a finish, override dimensions, or adjust price.
// ProductID is denormalized so ownership checks avoid a join.
type ProductOptionChoice struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID           uuid.UUID        `gorm:"column:group_id;type:uuid;not null;index"`
	ProductID         uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	Name              string           `gorm:"column:name;not null"`
	MaterialVariantID *uuid.UUID       `gorm:"column:material_variant_id;type:uuid"`
	MaterialID        *uuid.UUID       `gorm:"column:material_id;type:uuid"`
	FinishID          *uuid.UUID       `gorm:"column:finish_id;type:uuid"`
	FinishQtyPerUnit  *float64         `gorm:"column:finish_qty_per_unit;type:numeric(10,4)"`
	WidthMM           *float64         `gorm:"column:width_mm;type:numeric(8,2)"`
	HeightMM          *float64         `gorm:"column:height_mm;type:numeric(8,2)"`
	PriceAdjustment   *decimal.Decimal `gorm:"column:price_adjustment;type:numeric(8,4)"`
	PriceFixed        *decimal.Decimal `gorm:"column:price_fixed;type:numeric(12,4)"`
	Position          int              `gorm:"column:position;not null;default:0"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
