package quotes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkforge/printquote-backend/api/responses"
	"github.com/inkforge/printquote-backend/api/validators"
	"github.com/inkforge/printquote-backend/internal/pricing"
	quotesvc "github.com/inkforge/printquote-backend/internal/quotes"
	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
	"github.com/inkforge/printquote-backend/pkg/logger"
	"github.com/inkforge/printquote-backend/pkg/pagination"
)

// Price runs the pricing pipeline for one quantity without persisting.
func Price(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload PriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.PriceOne(r.Context(), pricing.PriceInput{
			ProductID:  payload.ProductID,
			Quantity:   payload.Quantity,
			CustomerID: payload.CustomerID,
			ChoiceIDs:  payload.ChoiceIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBreakdown(breakdown))
	}
}

// Matrix previews prices across quantities. Row failures surface inside the
// row, so a partially failing matrix still returns 200.
func Matrix(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload MatrixRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.PriceMatrix(r.Context(), pricing.MatrixInput{
			ProductID:  payload.ProductID,
			Quantities: payload.Quantities,
			CustomerID: payload.CustomerID,
			ChoiceIDs:  payload.ChoiceIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// Create persists the priced configuration as a draft quote.
func Create(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload CreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Create(r.Context(), quotesvc.CreateInput{
			ProductID:  payload.ProductID,
			Quantity:   payload.Quantity,
			CustomerID: payload.CustomerID,
			ChoiceIDs:  payload.ChoiceIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newQuote(quote))
	}
}

// Get returns one quote with its itemized breakdown.
func Get(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "quoteID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote id"))
			return
		}

		quote, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuote(quote))
	}
}

// List pages through quotes, newest first.
func List(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}, quotesvc.ListFilters{
			CustomerID: customerID,
			ProductID:  productID,
			Status:     validators.ParseQueryString(r, "status"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePaginated(w, newQuoteList(list.Quotes), list.NextCursor)
	}
}
