package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/pkg/db/models"
	"github.com/inkforge/printquote-backend/pkg/enums"
)

var one = decimal.NewFromInt(1)

// runPipeline is the strictly linear price computation: cost parts in,
// finished breakdown out. Intermediate values stay unrounded; the configured
// rounding step applies exactly once, before minimum-order and VAT.
//
// VAT is computed one canonical way everywhere: priceGross = net x (1+vat),
// vatAmount = priceGross - net. The proportional back-calculation some older
// callers used drifts from this after rounding and is intentionally gone.
func runPipeline(product *models.Product, quantity int, parts *CostParts, overrides *Overrides, rates Rates, vatPercent decimal.Decimal) *Breakdown {
	subtotal := parts.Material.
		Add(parts.Printing).
		Add(parts.Finishing).
		Add(overrides.PriceFixed).
		Mul(one.Add(overrides.PriceAdjustment))

	priceBeforeMargin := subtotal.Mul(one.Add(rates.Markup))
	final := priceBeforeMargin.Mul(one.Add(rates.Margin).Add(rates.Dynamic))

	rounded := final
	if product.RoundingStep != nil && product.RoundingStep.IsPositive() {
		rounded = roundToStep(final, *product.RoundingStep, product.RoundingStrategy)
	}

	breakdown := &Breakdown{
		ProductID:     product.ID,
		Quantity:      quantity,
		CostMaterial:  parts.Material,
		CostPrinting:  parts.Printing,
		CostFinishing: parts.Finishing,
		Subtotal:      subtotal,
		Markup:        rates.Markup,
		Margin:        rates.Margin,
		Dynamic:       rates.Dynamic,
		ChoiceIDs:     overrides.ChoiceIDs,
		Lines:         parts.Lines,
	}

	if quantity < product.MinOrderQty {
		breakdown.MinOrderApplied = true
		breakdown.MinOrderReason = fmt.Sprintf("quantity %d below minimum order quantity %d", quantity, product.MinOrderQty)
	}
	if product.MinOrderValue != nil && rounded.LessThan(*product.MinOrderValue) {
		rounded = *product.MinOrderValue
		breakdown.MinOrderApplied = true
		if breakdown.MinOrderReason != "" {
			breakdown.MinOrderReason += "; "
		}
		breakdown.MinOrderReason += fmt.Sprintf("price raised to minimum order value %s", product.MinOrderValue.StringFixed(2))
	}

	breakdown.PriceNet = rounded
	breakdown.PriceGross = rounded.Mul(one.Add(vatPercent))
	breakdown.VATAmount = breakdown.PriceGross.Sub(rounded)
	if quantity > 0 {
		breakdown.UnitGross = breakdown.PriceGross.Div(decimal.NewFromInt(int64(quantity)))
	}
	return breakdown
}

func roundToStep(value, step decimal.Decimal, strategy enums.RoundingStrategy) decimal.Decimal {
	steps := value.Div(step)
	switch strategy {
	case enums.RoundingUp:
		steps = steps.Ceil()
	case enums.RoundingDown:
		steps = steps.Floor()
	default:
		steps = steps.Round(0)
	}
	return steps.Mul(step)
}
