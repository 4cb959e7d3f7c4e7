package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkforge/printquote-backend/pkg/db/models"
	"github.com/inkforge/printquote-backend/pkg/pagination"
)

// Repository defines persistence operations for quotes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	CreateQuoteItems(ctx context.Context, items []models.QuoteItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	CountWithNumberPrefix(ctx context.Context, prefix string) (int64, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*QuoteList, error)
}

// ListFilters narrows the quote listing.
type ListFilters struct {
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
	Status     *string
}

// QuoteList is one page of quotes plus the next cursor.
type QuoteList struct {
	Quotes     []models.Quote
	NextCursor string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quote repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) CreateQuoteItems(ctx context.Context, items []models.QuoteItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindByID loads the quote with its audit lines ordered as priced.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quote, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// CountWithNumberPrefix backs the fallback numbering path when the counter
// store is unavailable.
func (r *repository) CountWithNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).
		Error
	return count, err
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*QuoteList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Quote{})
	if filters.CustomerID != nil {
		qb = qb.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.ProductID != nil {
		qb = qb.Where("product_id = ?", *filters.ProductID)
	}
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Quote
	err = qb.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	window := pagination.Trim(rows, params.Limit, func(q models.Quote) pagination.Cursor {
		return pagination.Cursor{CreatedAt: q.CreatedAt, ID: q.ID}
	})
	return &QuoteList{Quotes: window.Rows, NextCursor: window.NextCursor}, nil
}
