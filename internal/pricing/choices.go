package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/internal/catalog"
	"github.com/inkforge/printquote-backend/pkg/db/models"
	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
)

// applyChoices turns the caller's selection ids into one Overrides value.
//
// Primary path: the ids are ProductOptionChoice rows. A choice belonging to a
// different product rejects the whole request. Merging rules: first material
// variant or material wins, finishes accumulate, width/height take the
// maximum seen, percentage adjustments and flat amounts sum.
//
// Fallback path: when none of the ids are option choices, they are
// reinterpreted as legacy ProductMaterial/ProductFinish/ProductDimension ids
// scoped to the product; ids matching nothing there are dropped. The two
// paths never mix within one call.
func applyChoices(ctx context.Context, repo catalog.Reader, product *models.Product, choiceIDs []uuid.UUID) (*Overrides, error) {
	overrides := &Overrides{
		PriceAdjustment: decimal.Zero,
		PriceFixed:      decimal.Zero,
	}
	if len(choiceIDs) == 0 {
		return overrides, nil
	}

	choices, err := repo.GetOptionChoices(ctx, choiceIDs)
	if err != nil {
		return nil, fmt.Errorf("load option choices: %w", err)
	}
	if len(choices) > 0 {
		return mergeChoices(product, choices)
	}
	return applyLegacyIDs(product, choiceIDs)
}

func mergeChoices(product *models.Product, choices []models.ProductOptionChoice) (*Overrides, error) {
	overrides := &Overrides{
		PriceAdjustment: decimal.Zero,
		PriceFixed:      decimal.Zero,
	}
	for _, choice := range choices {
		if choice.ProductID != product.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("option choice %s does not belong to product %s", choice.ID, product.ID))
		}

		if overrides.MaterialVariantID == nil && overrides.MaterialID == nil {
			if choice.MaterialVariantID != nil {
				overrides.MaterialVariantID = choice.MaterialVariantID
			} else if choice.MaterialID != nil {
				overrides.MaterialID = choice.MaterialID
			}
		}

		if choice.FinishID != nil {
			qty := 1.0
			if choice.FinishQtyPerUnit != nil {
				qty = *choice.FinishQtyPerUnit
			}
			overrides.AdditionalFinishes = append(overrides.AdditionalFinishes, FinishSelection{
				FinishID:   *choice.FinishID,
				QtyPerUnit: qty,
			})
		}

		overrides.WidthMM = maxDim(overrides.WidthMM, choice.WidthMM)
		overrides.HeightMM = maxDim(overrides.HeightMM, choice.HeightMM)

		if choice.PriceAdjustment != nil {
			overrides.PriceAdjustment = overrides.PriceAdjustment.Add(*choice.PriceAdjustment)
		}
		if choice.PriceFixed != nil {
			overrides.PriceFixed = overrides.PriceFixed.Add(*choice.PriceFixed)
		}
		overrides.ChoiceIDs = append(overrides.ChoiceIDs, choice.ID)
	}
	return overrides, nil
}

// applyLegacyIDs matches ids against the product's own recipe and preset rows.
// Stale ids (rows deleted since the client cached them) are skipped, not
// errors; older integrations send whatever they last saw.
func applyLegacyIDs(product *models.Product, ids []uuid.UUID) (*Overrides, error) {
	overrides := &Overrides{
		PriceAdjustment: decimal.Zero,
		PriceFixed:      decimal.Zero,
	}

	materialsByID := make(map[uuid.UUID]models.ProductMaterial, len(product.Materials))
	for _, row := range product.Materials {
		materialsByID[row.ID] = row
	}
	finishesByID := make(map[uuid.UUID]models.ProductFinish, len(product.Finishes))
	for _, row := range product.Finishes {
		finishesByID[row.ID] = row
	}
	dimensionsByID := make(map[uuid.UUID]models.ProductDimension, len(product.Dimensions))
	for _, row := range product.Dimensions {
		dimensionsByID[row.ID] = row
	}

	for _, id := range ids {
		if row, ok := materialsByID[id]; ok {
			if overrides.MaterialID == nil {
				materialID := row.MaterialID
				overrides.MaterialID = &materialID
			}
			continue
		}
		if row, ok := finishesByID[id]; ok {
			overrides.AdditionalFinishes = append(overrides.AdditionalFinishes, FinishSelection{
				FinishID:   row.FinishID,
				QtyPerUnit: row.QtyPerUnit,
			})
			continue
		}
		if row, ok := dimensionsByID[id]; ok {
			width, height := row.WidthMM, row.HeightMM
			overrides.WidthMM = maxDim(overrides.WidthMM, &width)
			overrides.HeightMM = maxDim(overrides.HeightMM, &height)
		}
	}
	return overrides, nil
}

func maxDim(current, candidate *float64) *float64 {
	if candidate == nil {
		return current
	}
	if current == nil || *candidate > *current {
		v := *candidate
		return &v
	}
	return current
}
