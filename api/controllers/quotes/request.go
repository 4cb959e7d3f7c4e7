package quotes

import (
	"github.com/google/uuid"
)

// PriceRequest configures one pricing run without persisting anything.
type PriceRequest struct {
	ProductID  uuid.UUID   `json:"product_id" validate:"required"`
	Quantity   int         `json:"quantity" validate:"required,gt=0"`
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
	ChoiceIDs  []uuid.UUID `json:"choice_ids,omitempty"`
}

// MatrixRequest prices the same configuration at several quantities.
type MatrixRequest struct {
	ProductID  uuid.UUID   `json:"product_id" validate:"required"`
	Quantities []int       `json:"quantities" validate:"required,min=1"`
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
	ChoiceIDs  []uuid.UUID `json:"choice_ids,omitempty"`
}

// CreateRequest persists the priced configuration as a quote.
type CreateRequest struct {
	ProductID  uuid.UUID   `json:"product_id" validate:"required"`
	Quantity   int         `json:"quantity" validate:"required,gt=0"`
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
	ChoiceIDs  []uuid.UUID `json:"choice_ids,omitempty"`
}
