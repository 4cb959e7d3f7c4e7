package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/inkforge/printquote-backend/pkg/db/types"
	"github.com/inkforge/printquote-backend/pkg/enums"
)

// Quote is the persisted output of one pricing run: header totals plus the
// itemized breakdown. Written once, immutable afterward except for soft
// cancellation.
type Quote struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number          string            `gorm:"column:number;not null;uniqueIndex"`
	Status          enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:'draft'"`
	CustomerID      *uuid.UUID        `gorm:"column:customer_id;type:uuid"`
	ProductID       uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Quantity        int               `gorm:"column:quantity;not null"`
	CostMaterial    decimal.Decimal   `gorm:"column:cost_material;type:numeric(12,4);not null"`
	CostPrinting    decimal.Decimal   `gorm:"column:cost_printing;type:numeric(12,4);not null"`
	CostFinishing   decimal.Decimal   `gorm:"column:cost_finishing;type:numeric(12,4);not null"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,4);not null"`
	Markup          decimal.Decimal   `gorm:"column:markup;type:numeric(8,4);not null"`
	Margin          decimal.Decimal   `gorm:"column:margin;type:numeric(8,4);not null"`
	Dynamic         decimal.Decimal   `gorm:"column:dynamic;type:numeric(8,4);not null"`
	PriceNet        decimal.Decimal   `gorm:"column:price_net;type:numeric(12,4);not null"`
	VATAmount       decimal.Decimal   `gorm:"column:vat_amount;type:numeric(12,4);not null"`
	PriceGross      decimal.Decimal   `gorm:"column:price_gross;type:numeric(12,4);not null"`
	MinOrderApplied bool              `gorm:"column:min_order_applied;not null;default:false"`
	MinOrderReason  *string           `gorm:"column:min_order_reason"`
	ChoiceIDs       dbtypes.UUIDArray `gorm:"column:choice_ids;type:uuid[]"`
	Items           []QuoteItem       `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// QuoteItem is one contributing cost line, kept for audit and export.
type QuoteItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID   uuid.UUID       `gorm:"column:quote_id;type:uuid;not null;index"`
	Kind      enums.ItemKind  `gorm:"column:kind;type:item_kind;not null"`
	RefID     *uuid.UUID      `gorm:"column:ref_id;type:uuid"`
	Name      string          `gorm:"column:name;not null"`
	Quantity  decimal.Decimal `gorm:"column:quantity;type:numeric(12,4);not null"`
	Unit      string          `gorm:"column:unit;not null"`
	UnitCost  decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,4);not null"`
	TotalCost decimal.Decimal `gorm:"column:total_cost;type:numeric(12,4);not null"`
	Position  int             `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
