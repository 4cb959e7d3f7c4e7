package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkforge/printquote-backend/internal/pricing"
	"github.com/inkforge/printquote-backend/pkg/db/models"
	dbtypes "github.com/inkforge/printquote-backend/pkg/db/types"
	"github.com/inkforge/printquote-backend/pkg/enums"
	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
	"github.com/inkforge/printquote-backend/pkg/logger"
	"github.com/inkforge/printquote-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// counter hands out monotonically increasing sequence values per key.
// The Redis client satisfies it; a nil counter falls back to counting rows.
type counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// CreateInput prices a configuration and persists the result as a quote.
type CreateInput struct {
	ProductID  uuid.UUID
	Quantity   int
	CustomerID *uuid.UUID
	ChoiceIDs  []uuid.UUID
}

// Service persists and reads quotes.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Quote, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*QuoteList, error)
}

type service struct {
	repo   Repository
	pricer pricing.Service
	tx     txRunner
	seq    counter
	log    *logger.Logger
	now    func() time.Time
}

// NewService builds the quote service. The sequence counter is optional;
// without it quote numbers fall back to a count-based sequence.
func NewService(repo Repository, pricer pricing.Service, tx txRunner, seq counter, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("quote service requires a repository")
	}
	if pricer == nil {
		return nil, errors.New("quote service requires a pricing service")
	}
	if tx == nil {
		return nil, errors.New("quote service requires a transaction runner")
	}
	if log == nil {
		return nil, errors.New("quote service requires a logger")
	}
	return &service{
		repo:   repo,
		pricer: pricer,
		tx:     tx,
		seq:    seq,
		log:    log,
		now:    time.Now,
	}, nil
}

// Create prices the configuration and writes header plus items in one
// transaction. A quote is never observable with items missing.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Quote, error) {
	breakdown, err := s.pricer.PriceOne(ctx, pricing.PriceInput{
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		CustomerID: input.CustomerID,
		ChoiceIDs:  input.ChoiceIDs,
	})
	if err != nil {
		return nil, err
	}

	number, err := s.nextNumber(ctx)
	if err != nil {
		return nil, err
	}

	quote := buildQuote(breakdown, input, number)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateQuote(ctx, quote); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert quote")
		}
		items := buildItems(quote.ID, breakdown.Lines)
		if err := repo.CreateQuoteItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert quote items")
		}
		quote.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithQuoteID(ctx, quote.ID.String())
	s.log.Info(ctx, "quote created")
	return quote, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("quote %s", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*QuoteList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	return list, nil
}

// nextNumber produces Q-YYYYMM-NNNN. The month-scoped counter lives in Redis;
// when it is unavailable the count of existing numbers for the month seeds
// the sequence instead, which can collide under concurrent writers but keeps
// quoting alive. The unique index on number turns such a collision into a
// conflict the caller can retry.
func (s *service) nextNumber(ctx context.Context) (string, error) {
	month := s.now().UTC().Format("200601")
	prefix := fmt.Sprintf("Q-%s-", month)

	if s.seq != nil {
		seq, err := s.seq.Incr(ctx, s.seq.CounterKey("quotes:"+month))
		if err == nil {
			return fmt.Sprintf("%s%04d", prefix, seq), nil
		}
		s.log.Error(ctx, "quote counter unavailable, falling back to row count", err)
	}

	count, err := s.repo.CountWithNumberPrefix(ctx, prefix)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive quote number")
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func buildQuote(breakdown *pricing.Breakdown, input CreateInput, number string) *models.Quote {
	choiceIDs := make(dbtypes.UUIDArray, 0, len(breakdown.ChoiceIDs))
	for _, id := range breakdown.ChoiceIDs {
		choiceIDs = append(choiceIDs, id)
	}

	quote := &models.Quote{
		ID:              uuid.New(),
		Number:          number,
		Status:          enums.QuoteStatusDraft,
		CustomerID:      input.CustomerID,
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
		MinOrderApplied: breakdown.MinOrderApplied,
		ChoiceIDs:       choiceIDs,
	}
	if breakdown.MinOrderReason != "" {
		reason := breakdown.MinOrderReason
		quote.MinOrderReason = &reason
	}
	return quote
}

func buildItems(quoteID uuid.UUID, lines []pricing.Line) []models.QuoteItem {
	items := make([]models.QuoteItem, 0, len(lines))
	for i, line := range lines {
		items = append(items, models.QuoteItem{
			ID:        uuid.New(),
			QuoteID:   quoteID,
			Kind:      line.Kind,
			RefID:     line.RefID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Unit:      line.Unit,
			UnitCost:  line.UnitCost,
			TotalCost: line.TotalCost,
			Position:  i,
		})
	}
	return items
}
