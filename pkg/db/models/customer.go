package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the account a quote may be priced for. Customer-specific
// price rows hang off the per-kind override tables.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     *string   `gorm:"column:email;uniqueIndex"`
	VATExempt bool      `gorm:"column:vat_exempt;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
