package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/internal/catalog"
	"github.com/inkforge/printquote-backend/pkg/logger"
)

// priceResolver answers "what does this item cost for this customer". With no
// customer, or no current override row, the catalog default stands. Override
// rows come back best-first from the repository; a duplicated priority among
// current rows is a data-integrity smell, so it resolves deterministically but
// gets logged instead of silently absorbed.
type priceResolver struct {
	repo catalog.Reader
	log  *logger.Logger
}

func (r *priceResolver) materialCost(ctx context.Context, customerID *uuid.UUID, materialID uuid.UUID, fallback decimal.Decimal) (decimal.Decimal, error) {
	if customerID == nil {
		return fallback, nil
	}
	rows, err := r.repo.GetCustomerMaterialPrices(ctx, *customerID, []uuid.UUID{materialID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("load customer material prices: %w", err)
	}
	if len(rows) == 0 {
		return fallback, nil
	}
	if len(rows) > 1 && rows[0].Priority == rows[1].Priority {
		r.warnDuplicate(ctx, "material", materialID, *customerID)
	}
	return rows[0].Price, nil
}

func (r *priceResolver) printingPrice(ctx context.Context, customerID *uuid.UUID, printingID uuid.UUID, fallback decimal.Decimal) (decimal.Decimal, error) {
	if customerID == nil {
		return fallback, nil
	}
	rows, err := r.repo.GetCustomerPrintingPrices(ctx, *customerID, []uuid.UUID{printingID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("load customer printing prices: %w", err)
	}
	if len(rows) == 0 {
		return fallback, nil
	}
	if len(rows) > 1 && rows[0].Priority == rows[1].Priority {
		r.warnDuplicate(ctx, "printing", printingID, *customerID)
	}
	return rows[0].Price, nil
}

func (r *priceResolver) finishCost(ctx context.Context, customerID *uuid.UUID, finishID uuid.UUID, fallback decimal.Decimal) (decimal.Decimal, error) {
	if customerID == nil {
		return fallback, nil
	}
	rows, err := r.repo.GetCustomerFinishPrices(ctx, *customerID, []uuid.UUID{finishID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("load customer finish prices: %w", err)
	}
	if len(rows) == 0 {
		return fallback, nil
	}
	if len(rows) > 1 && rows[0].Priority == rows[1].Priority {
		r.warnDuplicate(ctx, "finish", finishID, *customerID)
	}
	return rows[0].Price, nil
}

func (r *priceResolver) warnDuplicate(ctx context.Context, kind string, itemID, customerID uuid.UUID) {
	if r.log == nil {
		return
	}
	ctx = r.log.WithCustomerID(ctx, customerID.String())
	ctx = r.log.WithFields(ctx, map[string]any{
		"item_kind": kind,
		"item_id":   itemID.String(),
	})
	r.log.Warn(ctx, "multiple current price rows share a priority; resolved by recency")
}
