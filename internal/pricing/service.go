package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inkforge/printquote-backend/internal/catalog"
	"github.com/inkforge/printquote-backend/pkg/config"
	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
	"github.com/inkforge/printquote-backend/pkg/logger"
	"github.com/inkforge/printquote-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service prices product configurations. Each run reads the catalog inside
// one transaction so the several sequential lookups see a single snapshot.
type Service interface {
	PriceOne(ctx context.Context, input PriceInput) (*Breakdown, error)
	PriceMatrix(ctx context.Context, input MatrixInput) ([]MatrixRow, error)
}

type service struct {
	repo    catalog.Reader
	tx      txRunner
	cfg     config.PricingConfig
	log     *logger.Logger
	metrics *metrics.PricingMetrics
	now     func() time.Time
}

// NewService builds the pricing service with the required dependencies.
// Metrics may be nil; every other dependency is mandatory.
func NewService(repo catalog.Reader, tx txRunner, cfg config.PricingConfig, log *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, errors.New("pricing service requires a catalog reader")
	}
	if tx == nil {
		return nil, errors.New("pricing service requires a transaction runner")
	}
	if log == nil {
		return nil, errors.New("pricing service requires a logger")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		cfg:     cfg,
		log:     log,
		metrics: m,
		now:     time.Now,
	}, nil
}

func (s *service) PriceOne(ctx context.Context, input PriceInput) (*Breakdown, error) {
	started := s.now()
	breakdown, err := s.priceInSnapshot(ctx, input)
	s.metrics.ObserveDuration("price_one", s.now().Sub(started))
	if err != nil {
		s.metrics.IncFailure("price_one")
		return nil, err
	}
	s.metrics.IncSuccess("price_one")
	return breakdown, nil
}

func (s *service) priceInSnapshot(ctx context.Context, input PriceInput) (*Breakdown, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var breakdown *Breakdown
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		result, err := s.run(ctx, repo, input)
		if err != nil {
			return err
		}
		breakdown = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// run is one full pricing computation against an already-bound snapshot.
func (s *service) run(ctx context.Context, repo catalog.Reader, input PriceInput) (*Breakdown, error) {
	ctx = s.log.WithProductID(ctx, input.ProductID.String())

	product, err := repo.GetProductDetail(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("product %s", input.ProductID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("product %s is not active", input.ProductID))
	}

	vatPercent, err := s.vatFor(ctx, repo, input.CustomerID)
	if err != nil {
		return nil, err
	}

	overrides, err := applyChoices(ctx, repo, product, input.ChoiceIDs)
	if err != nil {
		return nil, err
	}

	composer := &costComposer{
		repo:     repo,
		resolver: &priceResolver{repo: repo, log: s.log},
		cfg:      s.cfg,
	}
	parts, err := composer.compose(ctx, product, input.Quantity, input.CustomerID, overrides)
	if err != nil {
		return nil, err
	}

	subtotal := parts.Material.
		Add(parts.Printing).
		Add(parts.Finishing).
		Add(overrides.PriceFixed).
		Mul(one.Add(overrides.PriceAdjustment))

	resolver := &rateResolver{repo: repo, cfg: s.cfg}
	rates, err := resolver.resolve(ctx, product, input.Quantity, subtotal, s.now())
	if err != nil {
		return nil, err
	}

	return runPipeline(product, input.Quantity, parts, overrides, rates, vatPercent), nil
}

func (s *service) vatFor(ctx context.Context, repo catalog.Reader, customerID *uuid.UUID) (decimal.Decimal, error) {
	if customerID == nil {
		return s.cfg.VATPercent, nil
	}
	customer, err := repo.GetCustomer(ctx, *customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("customer %s", *customerID))
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer.VATExempt {
		return decimal.Zero, nil
	}
	return s.cfg.VATPercent, nil
}
