package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/pkg/enums"
)

// Printing describes a print process and its per-piece pricing.
// Setup is either a flat fee or minutes billed at the minute rate.
type Printing struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string                `gorm:"column:name;not null"`
	Technology   enums.PrintTechnology `gorm:"column:technology;type:print_technology;not null"`
	ColorMode    enums.ColorMode       `gorm:"column:color_mode;type:color_mode;not null"`
	Sides        enums.PrintSides      `gorm:"column:sides;type:print_sides;not null;default:'simplex'"`
	UnitPrice    decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,4);not null"`
	SetupFee     *decimal.Decimal      `gorm:"column:setup_fee;type:numeric(12,4)"`
	SetupMinutes *int                  `gorm:"column:setup_minutes"`
	MinuteRate   *decimal.Decimal      `gorm:"column:minute_rate;type:numeric(12,4)"`
	MinFee       *decimal.Decimal      `gorm:"column:min_fee;type:numeric(12,4)"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
