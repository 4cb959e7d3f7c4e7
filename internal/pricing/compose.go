package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/internal/catalog"
	"github.com/inkforge/printquote-backend/pkg/config"
	"github.com/inkforge/printquote-backend/pkg/db/models"
	"github.com/inkforge/printquote-backend/pkg/enums"
	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
	"github.com/inkforge/printquote-backend/pkg/imposition"
)

// costComposer turns the product recipe plus normalized overrides into raw
// cost components and the audit lines. All unit dispatch on material units
// and finish calc types lives here and nowhere else.
type costComposer struct {
	repo     catalog.Reader
	resolver *priceResolver
	cfg      config.PricingConfig
}

// materialSpec is the flattened "what stock, at what cost, with what factors"
// a single material line is priced from, whichever of the three sources
// (variant override, material override, recipe row) supplied it.
type materialSpec struct {
	materialID    uuid.UUID
	refID         uuid.UUID
	name          string
	unit          enums.MaterialUnit
	unitCost      decimal.Decimal
	sheetWidthMM  *float64
	sheetHeightMM *float64
	qtyPerUnit    float64
	wasteFactor   float64
	lossFactor    float64
}

func (c *costComposer) compose(ctx context.Context, product *models.Product, quantity int, customerID *uuid.UUID, overrides *Overrides) (*CostParts, error) {
	parts := &CostParts{
		Material:  decimal.Zero,
		Printing:  decimal.Zero,
		Finishing: decimal.Zero,
	}

	pieceW, pieceH := effectiveDims(product, overrides)

	specs, err := c.materialSpecs(ctx, product, overrides)
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		unitCost, err := c.resolver.materialCost(ctx, customerID, spec.materialID, spec.unitCost)
		if err != nil {
			return nil, err
		}
		spec.unitCost = unitCost

		line, err := costMaterial(spec, quantity, pieceW, pieceH)
		if err != nil {
			return nil, err
		}
		parts.Material = parts.Material.Add(line.TotalCost)
		parts.Lines = append(parts.Lines, line)
	}

	if product.Printing != nil {
		lines, total, err := c.costPrinting(ctx, product.Printing, quantity, customerID)
		if err != nil {
			return nil, err
		}
		parts.Printing = total
		parts.Lines = append(parts.Lines, lines...)
	}

	finishLines, finishTotal, err := c.costFinishes(ctx, product, quantity, customerID, overrides, pieceW, pieceH)
	if err != nil {
		return nil, err
	}
	parts.Finishing = finishTotal
	parts.Lines = append(parts.Lines, finishLines...)

	return parts, nil
}

func effectiveDims(product *models.Product, overrides *Overrides) (float64, float64) {
	w, h := product.WidthMM, product.HeightMM
	if overrides.WidthMM != nil {
		w = *overrides.WidthMM
	}
	if overrides.HeightMM != nil {
		h = *overrides.HeightMM
	}
	return w, h
}

// materialSpecs flattens the material side of the run. An override narrows
// the run to a single stock; otherwise every recipe row is costed.
func (c *costComposer) materialSpecs(ctx context.Context, product *models.Product, overrides *Overrides) ([]materialSpec, error) {
	if overrides.MaterialVariantID != nil {
		variant, parent, err := c.repo.GetMaterialVariant(ctx, *overrides.MaterialVariantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err,
				fmt.Sprintf("material variant %s", *overrides.MaterialVariantID))
		}
		spec := materialSpec{
			materialID:    parent.ID,
			refID:         variant.ID,
			name:          variant.Name,
			unit:          parent.Unit,
			unitCost:      parent.UnitCost,
			sheetWidthMM:  parent.SheetWidthMM,
			sheetHeightMM: parent.SheetHeightMM,
			qtyPerUnit:    1,
		}
		if variant.UnitCost != nil {
			spec.unitCost = *variant.UnitCost
		}
		if variant.SheetWidthMM != nil {
			spec.sheetWidthMM = variant.SheetWidthMM
		}
		if variant.SheetHeightMM != nil {
			spec.sheetHeightMM = variant.SheetHeightMM
		}
		applyRecipeFactors(&spec, product, parent.ID)
		return []materialSpec{spec}, nil
	}

	if overrides.MaterialID != nil {
		material, err := c.repo.GetMaterial(ctx, *overrides.MaterialID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err,
				fmt.Sprintf("material %s", *overrides.MaterialID))
		}
		spec := materialSpec{
			materialID:    material.ID,
			refID:         material.ID,
			name:          material.Name,
			unit:          material.Unit,
			unitCost:      material.UnitCost,
			sheetWidthMM:  material.SheetWidthMM,
			sheetHeightMM: material.SheetHeightMM,
			qtyPerUnit:    1,
		}
		applyRecipeFactors(&spec, product, material.ID)
		return []materialSpec{spec}, nil
	}

	specs := make([]materialSpec, 0, len(product.Materials))
	for _, row := range product.Materials {
		if row.Material == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal,
				fmt.Sprintf("recipe row %s has no material loaded", row.ID))
		}
		specs = append(specs, materialSpec{
			materialID:    row.Material.ID,
			refID:         row.Material.ID,
			name:          row.Material.Name,
			unit:          row.Material.Unit,
			unitCost:      row.Material.UnitCost,
			sheetWidthMM:  row.Material.SheetWidthMM,
			sheetHeightMM: row.Material.SheetHeightMM,
			qtyPerUnit:    row.QtyPerUnit,
			wasteFactor:   row.WasteFactor,
			lossFactor:    row.LossFactor,
		})
	}
	return specs, nil
}

func applyRecipeFactors(spec *materialSpec, product *models.Product, materialID uuid.UUID) {
	for _, row := range product.Materials {
		if row.MaterialID == materialID {
			spec.qtyPerUnit = row.QtyPerUnit
			spec.wasteFactor = row.WasteFactor
			spec.lossFactor = row.LossFactor
			return
		}
	}
}

func costMaterial(spec materialSpec, quantity int, pieceW, pieceH float64) (Line, error) {
	refID := spec.refID
	line := Line{
		Kind:     enums.ItemKindMaterial,
		RefID:    &refID,
		Name:     spec.name,
		UnitCost: spec.unitCost,
	}

	switch spec.unit {
	case enums.MaterialUnitSheet:
		if spec.sheetWidthMM == nil || spec.sheetHeightMM == nil {
			return Line{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("material %s is sheet-priced but has no sheet dimensions", spec.name))
		}
		layout := imposition.Compute(pieceW, pieceH, *spec.sheetWidthMM, *spec.sheetHeightMM, 0, 0)
		if layout.PiecesPerSheet == 0 {
			return Line{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("piece %gx%gmm does not fit sheet %gx%gmm of %s",
					pieceW, pieceH, *spec.sheetWidthMM, *spec.sheetHeightMM, spec.name))
		}
		sheetsNeeded := int(math.Ceil(float64(quantity) / float64(layout.PiecesPerSheet)))
		totalSheets := int(math.Ceil(float64(sheetsNeeded) * (1 + spec.lossFactor)))
		line.Quantity = decimal.NewFromInt(int64(totalSheets))
		line.Unit = "sheet"
	case enums.MaterialUnitM2:
		areaM2 := pieceW * pieceH / 1_000_000
		consumed := areaM2 * float64(quantity) * (1 + spec.wasteFactor)
		line.Quantity = decimal.NewFromFloat(consumed)
		line.Unit = "m2"
	default:
		line.Quantity = decimal.NewFromFloat(spec.qtyPerUnit * float64(quantity))
		line.Unit = string(spec.unit)
	}

	line.TotalCost = line.Quantity.Mul(spec.unitCost)
	return line, nil
}

func (c *costComposer) costPrinting(ctx context.Context, printing *models.Printing, quantity int, customerID *uuid.UUID) ([]Line, decimal.Decimal, error) {
	unitPrice, err := c.resolver.printingPrice(ctx, customerID, printing.ID, printing.UnitPrice)
	if err != nil {
		return nil, decimal.Zero, err
	}

	refID := printing.ID
	qty := decimal.NewFromInt(int64(quantity))
	run := Line{
		Kind:      enums.ItemKindPrinting,
		RefID:     &refID,
		Name:      printing.Name,
		Quantity:  qty,
		Unit:      "unit",
		UnitCost:  unitPrice,
		TotalCost: unitPrice.Mul(qty),
	}
	lines := []Line{run}
	total := run.TotalCost

	setup := decimal.Zero
	switch {
	case printing.SetupFee != nil:
		setup = *printing.SetupFee
	case printing.SetupMinutes != nil && printing.MinuteRate != nil:
		setup = printing.MinuteRate.Mul(decimal.NewFromInt(int64(*printing.SetupMinutes)))
	}
	if setup.IsPositive() {
		lines = append(lines, Line{
			Kind:      enums.ItemKindPrinting,
			RefID:     &refID,
			Name:      printing.Name + " setup",
			Quantity:  decimal.NewFromInt(1),
			Unit:      "lot",
			UnitCost:  setup,
			TotalCost: setup,
		})
		total = total.Add(setup)
	}

	if printing.MinFee != nil && total.LessThan(*printing.MinFee) {
		diff := printing.MinFee.Sub(total)
		lines = append(lines, Line{
			Kind:      enums.ItemKindPrinting,
			RefID:     &refID,
			Name:      printing.Name + " minimum fee",
			Quantity:  decimal.NewFromInt(1),
			Unit:      "lot",
			UnitCost:  diff,
			TotalCost: diff,
		})
		total = *printing.MinFee
	}
	return lines, total, nil
}

func (c *costComposer) costFinishes(ctx context.Context, product *models.Product, quantity int, customerID *uuid.UUID, overrides *Overrides, pieceW, pieceH float64) ([]Line, decimal.Decimal, error) {
	type selection struct {
		finish     *models.Finish
		qtyPerUnit float64
	}
	var selections []selection

	for _, row := range product.Finishes {
		if row.Finish == nil {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeInternal,
				fmt.Sprintf("finish row %s has no finish loaded", row.ID))
		}
		selections = append(selections, selection{finish: row.Finish, qtyPerUnit: row.QtyPerUnit})
	}
	for _, extra := range overrides.AdditionalFinishes {
		finish, err := c.repo.GetFinish(ctx, extra.FinishID)
		if err != nil {
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeNotFound, err,
				fmt.Sprintf("finish %s", extra.FinishID))
		}
		selections = append(selections, selection{finish: finish, qtyPerUnit: extra.QtyPerUnit})
	}

	total := decimal.Zero
	var lines []Line
	for _, sel := range selections {
		baseCost, err := c.resolver.finishCost(ctx, customerID, sel.finish.ID, sel.finish.BaseCost)
		if err != nil {
			return nil, decimal.Zero, err
		}
		line := costFinish(sel.finish, baseCost, sel.qtyPerUnit, quantity, pieceW, pieceH, c.cfg.EstimatedHoursFallback)
		total = total.Add(line.TotalCost)
		lines = append(lines, line)
	}
	return lines, total, nil
}

func costFinish(finish *models.Finish, baseCost decimal.Decimal, qtyPerUnit float64, quantity int, pieceW, pieceH float64, hoursFallback float64) Line {
	refID := finish.ID
	line := Line{
		Kind:     enums.ItemKindFinish,
		RefID:    &refID,
		Name:     finish.Name,
		UnitCost: baseCost,
	}

	switch finish.CalcType {
	case enums.FinishCalcPerUnit:
		line.Quantity = decimal.NewFromFloat(qtyPerUnit * float64(quantity))
		line.Unit = "unit"
	case enums.FinishCalcPerM2:
		areaM2 := pieceW * pieceH / 1_000_000
		if finish.AreaStepM2 != nil && *finish.AreaStepM2 > 0 {
			areaM2 = math.Ceil(areaM2 / *finish.AreaStepM2) * *finish.AreaStepM2
		}
		line.Quantity = decimal.NewFromFloat(areaM2 * float64(quantity))
		line.Unit = "m2"
	case enums.FinishCalcPerLot:
		line.Quantity = decimal.NewFromInt(1)
		line.Unit = "lot"
	case enums.FinishCalcPerHour:
		hours := hoursFallback
		if finish.EstimatedHours != nil {
			hours = *finish.EstimatedHours
		}
		line.Quantity = decimal.NewFromFloat(hours)
		line.Unit = "hour"
	}

	line.TotalCost = line.Quantity.Mul(baseCost)
	if finish.MinFee != nil && line.TotalCost.LessThan(*finish.MinFee) {
		line.TotalCost = *finish.MinFee
	}
	return line
}
