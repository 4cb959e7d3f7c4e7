package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/pkg/enums"
)

// Finish is a post-print operation (lamination, cutting, folding) with its
// own cost model selected by CalcType.
type Finish struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string               `gorm:"column:name;not null"`
	Category       string               `gorm:"column:category;not null;default:''"`
	CalcType       enums.FinishCalcType `gorm:"column:calc_type;type:finish_calc_type;not null"`
	BaseCost       decimal.Decimal      `gorm:"column:base_cost;type:numeric(12,4);not null"`
	MinFee         *decimal.Decimal     `gorm:"column:min_fee;type:numeric(12,4)"`
	AreaStepM2     *float64             `gorm:"column:area_step_m2;type:numeric(8,4)"`
	EstimatedHours *float64             `gorm:"column:estimated_hours;type:numeric(8,2)"`
	IsActive       bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
