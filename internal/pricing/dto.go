package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/pkg/enums"
)

// PriceInput is one single-quantity pricing request.
type PriceInput struct {
	ProductID  uuid.UUID
	Quantity   int
	CustomerID *uuid.UUID
	ChoiceIDs  []uuid.UUID
}

// MatrixInput prices the same configuration at several quantities.
type MatrixInput struct {
	ProductID  uuid.UUID
	Quantities []int
	CustomerID *uuid.UUID
	ChoiceIDs  []uuid.UUID
}

// Overrides is the normalized form of user-selected options. Both the option
// choice path and the legacy id fallback collapse into this shape; nothing
// downstream knows which path produced it.
type Overrides struct {
	MaterialVariantID  *uuid.UUID
	MaterialID         *uuid.UUID
	AdditionalFinishes []FinishSelection
	WidthMM            *float64
	HeightMM           *float64
	PriceAdjustment    decimal.Decimal
	PriceFixed         decimal.Decimal
	ChoiceIDs          []uuid.UUID
}

// FinishSelection is a finish added by an option choice.
type FinishSelection struct {
	FinishID   uuid.UUID
	QtyPerUnit float64
}

// Rates are the resolved multipliers for one run, all fractions.
type Rates struct {
	Markup  decimal.Decimal
	Margin  decimal.Decimal
	Dynamic decimal.Decimal
}

// Line is one contributing cost entry kept for audit and export.
type Line struct {
	Kind      enums.ItemKind
	RefID     *uuid.UUID
	Name      string
	Quantity  decimal.Decimal
	Unit      string
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
}

// CostParts is the raw cost side of a run before any markup or margin.
type CostParts struct {
	Material  decimal.Decimal
	Printing  decimal.Decimal
	Finishing decimal.Decimal
	Lines     []Line
}

// Breakdown is the full output of one pricing run.
type Breakdown struct {
	ProductID       uuid.UUID
	Quantity        int
	CostMaterial    decimal.Decimal
	CostPrinting    decimal.Decimal
	CostFinishing   decimal.Decimal
	Subtotal        decimal.Decimal
	Markup          decimal.Decimal
	Margin          decimal.Decimal
	Dynamic         decimal.Decimal
	PriceNet        decimal.Decimal
	VATAmount       decimal.Decimal
	PriceGross      decimal.Decimal
	UnitGross       decimal.Decimal
	MinOrderApplied bool
	MinOrderReason  string
	ChoiceIDs       []uuid.UUID
	Lines           []Line
}

// MatrixRow is one quantity's result in a matrix preview. Failed rows carry
// the error string and zero prices instead of aborting the batch.
type MatrixRow struct {
	Quantity   int             `json:"quantity"`
	PriceNet   decimal.Decimal `json:"price_net"`
	VATAmount  decimal.Decimal `json:"vat_amount"`
	PriceGross decimal.Decimal `json:"price_gross"`
	UnitGross  decimal.Decimal `json:"unit_gross"`
	Error      string          `json:"error,omitempty"`
}
