package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/pkg/enums"
)

// MarginRule sets the profit margin at a scope. At most one rule should be
// effective per scope instance at a time; resolution picks the most specific
// active scope.
type MarginRule struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Scope       enums.RuleScope `gorm:"column:scope;type:rule_scope;not null"`
	Margin      decimal.Decimal `gorm:"column:margin;type:numeric(8,4);not null"`
	CategoryID  *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	ProductID   *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ActiveFrom  *time.Time      `gorm:"column:active_from"`
	ActiveUntil *time.Time      `gorm:"column:active_until"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the rule's time window covers the instant.
func (r MarginRule) ActiveAt(t time.Time) bool {
	if r.ActiveFrom != nil && t.Before(*r.ActiveFrom) {
		return false
	}
	if r.ActiveUntil != nil && t.After(*r.ActiveUntil) {
		return false
	}
	return true
}

// MarginRuleDynamic is a quantity/subtotal-triggered tiered adjustment to the
// effective margin. Stackable matches sum; otherwise the highest-priority
// match wins alone.
type MarginRuleDynamic struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Scope       enums.RuleScope  `gorm:"column:scope;type:rule_scope;not null"`
	CategoryID  *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	ProductID   *uuid.UUID       `gorm:"column:product_id;type:uuid"`
	MinQuantity *int             `gorm:"column:min_quantity"`
	MinSubtotal *decimal.Decimal `gorm:"column:min_subtotal;type:numeric(12,4)"`
	Adjustment  decimal.Decimal  `gorm:"column:adjustment;type:numeric(8,4);not null"`
	Priority    int              `gorm:"column:priority;not null;default:0"`
	Stackable   bool             `gorm:"column:stackable;not null;default:false"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
