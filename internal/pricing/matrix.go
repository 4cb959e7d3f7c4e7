package pricing

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
)

// PriceMatrix prices the same configuration at every requested quantity.
// Rows run concurrently but land at their input index, so output order always
// matches input order. A failing quantity produces a zeroed row carrying the
// error; it never sinks the batch.
func (s *service) PriceMatrix(ctx context.Context, input MatrixInput) ([]MatrixRow, error) {
	if len(input.Quantities) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one quantity is required")
	}
	if max := s.cfg.MaxMatrixQuantities; max > 0 && len(input.Quantities) > max {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("matrix preview is limited to %d quantities", max))
	}

	started := s.now()
	rows := make([]MatrixRow, len(input.Quantities))

	group, groupCtx := errgroup.WithContext(ctx)
	workers := s.cfg.MatrixWorkers
	if workers < 1 {
		workers = 1
	}
	group.SetLimit(workers)

	for i, quantity := range input.Quantities {
		group.Go(func() error {
			row := MatrixRow{Quantity: quantity}
			breakdown, err := s.priceInSnapshot(groupCtx, PriceInput{
				ProductID:  input.ProductID,
				Quantity:   quantity,
				CustomerID: input.CustomerID,
				ChoiceIDs:  input.ChoiceIDs,
			})
			if err != nil {
				row.Error = err.Error()
			} else {
				row.PriceNet = breakdown.PriceNet
				row.VATAmount = breakdown.VATAmount
				row.PriceGross = breakdown.PriceGross
				row.UnitGross = breakdown.UnitGross
			}
			rows[i] = row
			return nil
		})
	}
	// Workers never return errors; failures live in their rows.
	_ = group.Wait()

	priced, failed := 0, 0
	for _, row := range rows {
		if row.Error == "" {
			priced++
		} else {
			failed++
		}
	}
	s.metrics.ObserveDuration("price_matrix", s.now().Sub(started))
	s.metrics.AddMatrixRows("priced", priced)
	s.metrics.AddMatrixRows("failed", failed)
	if failed == 0 {
		s.metrics.IncSuccess("price_matrix")
	} else {
		s.metrics.IncFailure("price_matrix")
	}
	return rows, nil
}
