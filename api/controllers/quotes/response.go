package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/internal/pricing"
	"github.com/inkforge/printquote-backend/pkg/db/models"
)

type breakdownResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        int             `json:"quantity"`
	CostMaterial    decimal.Decimal `json:"cost_material"`
	CostPrinting    decimal.Decimal `json:"cost_printing"`
	CostFinishing   decimal.Decimal `json:"cost_finishing"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Markup          decimal.Decimal `json:"markup"`
	Margin          decimal.Decimal `json:"margin"`
	Dynamic         decimal.Decimal `json:"dynamic"`
	PriceNet        decimal.Decimal `json:"price_net"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	PriceGross      decimal.Decimal `json:"price_gross"`
	UnitGross       decimal.Decimal `json:"unit_gross"`
	MinOrderApplied bool            `json:"min_order_applied"`
	MinOrderReason  string          `json:"min_order_reason,omitempty"`
	ChoiceIDs       []uuid.UUID     `json:"choice_ids,omitempty"`
	Lines           []lineResponse  `json:"lines"`
}

type lineResponse struct {
	Kind      string          `json:"kind"`
	RefID     *uuid.UUID      `json:"ref_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

type quoteResponse struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Status          string          `json:"status"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	PriceNet        decimal.Decimal `json:"price_net"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	PriceGross      decimal.Decimal `json:"price_gross"`
	MinOrderApplied bool            `json:"min_order_applied"`
	MinOrderReason  *string         `json:"min_order_reason,omitempty"`
	Items           []lineResponse  `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func newBreakdown(breakdown *pricing.Breakdown) breakdownResponse {
	lines := make([]lineResponse, 0, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		lines = append(lines, lineResponse{
			Kind:      string(line.Kind),
			RefID:     line.RefID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Unit:      line.Unit,
			UnitCost:  line.UnitCost,
			TotalCost: line.TotalCost,
		})
	}
	return breakdownResponse{
		ProductID:       breakdown.ProductID,
		Quantity:        breakdown.Quantity,
		CostMaterial:    breakdown.CostMaterial,
		CostPrinting:    breakdown.CostPrinting,
		CostFinishing:   breakdown.CostFinishing,
		Subtotal:        breakdown.Subtotal,
		Markup:          breakdown.Markup,
		Margin:          breakdown.Margin,
		Dynamic:         breakdown.Dynamic,
		PriceNet:        breakdown.PriceNet,
		VATAmount:       breakdown.VATAmount,
		PriceGross:      breakdown.PriceGross,
		UnitGross:       breakdown.UnitGross,
		MinOrderApplied: breakdown.MinOrderApplied,
		MinOrderReason:  breakdown.MinOrderReason,
		ChoiceIDs:       breakdown.ChoiceIDs,
		Lines:           lines,
	}
}

func newQuote(quote *models.Quote) quoteResponse {
	items := make([]lineResponse, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, lineResponse{
			Kind:      string(item.Kind),
			RefID:     item.RefID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitCost:  item.UnitCost,
			TotalCost: item.TotalCost,
		})
	}
	return quoteResponse{
		ID:              quote.ID,
		Number:          quote.Number,
		Status:          string(quote.Status),
		CustomerID:      quote.CustomerID,
		ProductID:       quote.ProductID,
		Quantity:        quote.Quantity,
		Subtotal:        quote.Subtotal,
		PriceNet:        quote.PriceNet,
		VATAmount:       quote.VATAmount,
		PriceGross:      quote.PriceGross,
		MinOrderApplied: quote.MinOrderApplied,
		MinOrderReason:  quote.MinOrderReason,
		Items:           items,
		CreatedAt:       quote.CreatedAt,
	}
}

func newQuoteList(quotes []models.Quote) []quoteResponse {
	out := make([]quoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, newQuote(&quotes[i]))
	}
	return out
}
