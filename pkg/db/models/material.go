package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/pkg/enums"
)

// Material is a stock item (paper, vinyl, board) costed per its unit.
// Sheet dimensions are only meaningful for sheet-unit materials.
type Material struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string             `gorm:"column:name;not null"`
	Unit          enums.MaterialUnit `gorm:"column:unit;type:material_unit;not null"`
	UnitCost      decimal.Decimal    `gorm:"column:unit_cost;type:numeric(12,4);not null"`
	SupplierCost  *decimal.Decimal   `gorm:"column:supplier_cost;type:numeric(12,4)"`
	SheetWidthMM  *float64           `gorm:"column:sheet_width_mm;type:numeric(8,2)"`
	SheetHeightMM *float64           `gorm:"column:sheet_height_mm;type:numeric(8,2)"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	Variants      []MaterialVariant  `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// MaterialVariant is a specific size/packaging option of a base material.
// Nil fields fall back to the parent material's values.
type MaterialVariant struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MaterialID    uuid.UUID        `gorm:"column:material_id;type:uuid;not null"`
	Name          string           `gorm:"column:name;not null"`
	UnitCost      *decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,4)"`
	PackSize      *int             `gorm:"column:pack_size"`
	SheetWidthMM  *float64         `gorm:"column:sheet_width_mm;type:numeric(8,2)"`
	SheetHeightMM *float64         `gorm:"column:sheet_height_mm;type:numeric(8,2)"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
