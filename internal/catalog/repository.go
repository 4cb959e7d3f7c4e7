package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkforge/printquote-backend/pkg/db/models"
	"github.com/inkforge/printquote-backend/pkg/enums"
)

// Reader is the read side of the catalog used by pricing runs. Catalog rows
// are owned by an admin surface elsewhere; pricing never mutates them.
type Reader interface {
	WithTx(tx *gorm.DB) Reader
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetOptionChoices(ctx context.Context, ids []uuid.UUID) ([]models.ProductOptionChoice, error)
	GetMaterialVariant(ctx context.Context, id uuid.UUID) (*models.MaterialVariant, *models.Material, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error)
	GetFinish(ctx context.Context, id uuid.UUID) (*models.Finish, error)
	GetCustomerMaterialPrices(ctx context.Context, customerID uuid.UUID, materialIDs []uuid.UUID) ([]models.CustomerMaterialPrice, error)
	GetCustomerPrintingPrices(ctx context.Context, customerID uuid.UUID, printingIDs []uuid.UUID) ([]models.CustomerPrintingPrice, error)
	GetCustomerFinishPrices(ctx context.Context, customerID uuid.UUID, finishIDs []uuid.UUID) ([]models.CustomerFinishPrice, error)
	GetMarginRules(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) ([]models.MarginRule, error)
	GetDynamicRules(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) ([]models.MarginRuleDynamic, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// Repository is the GORM-backed Reader.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) Reader {
	return &Repository{db: tx}
}

// GetProductDetail loads the product with every association a pricing run
// reads: recipe rows, printing process, category, option groups, and size
// presets.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Printing").
		Preload("Materials.Material.Variants").
		Preload("Finishes.Finish").
		Preload("Dimensions").
		Preload("OptionGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("OptionGroups.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetOptionChoices loads option choices by ID. Callers must verify ownership
// against the product; rows for other products come back too.
func (r *Repository) GetOptionChoices(ctx context.Context, ids []uuid.UUID) ([]models.ProductOptionChoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ProductOptionChoice
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("position ASC").
		Find(&rows).
		Error
	return rows, err
}

// GetMaterialVariant loads a variant with its parent material for fallbacks.
func (r *Repository) GetMaterialVariant(ctx context.Context, id uuid.UUID) (*models.MaterialVariant, *models.Material, error) {
	var variant models.MaterialVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", variant.MaterialID).Error; err != nil {
		return nil, nil, err
	}
	return &variant, &material, nil
}

// GetMaterial loads a single material row.
func (r *Repository) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// GetFinish loads a single finish row.
func (r *Repository) GetFinish(ctx context.Context, id uuid.UUID) (*models.Finish, error) {
	var finish models.Finish
	if err := r.db.WithContext(ctx).First(&finish, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &finish, nil
}

// GetCustomerMaterialPrices returns the current override rows for the
// customer and materials, best candidate first. Priority ascends, then
// recency breaks ties so a duplicated priority resolves deterministically.
func (r *Repository) GetCustomerMaterialPrices(ctx context.Context, customerID uuid.UUID, materialIDs []uuid.UUID) ([]models.CustomerMaterialPrice, error) {
	if len(materialIDs) == 0 {
		return nil, nil
	}
	var rows []models.CustomerMaterialPrice
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND material_id IN ? AND is_current = ?", customerID, materialIDs, true).
		Order("priority ASC").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// GetCustomerPrintingPrices returns current printing overrides, best first.
func (r *Repository) GetCustomerPrintingPrices(ctx context.Context, customerID uuid.UUID, printingIDs []uuid.UUID) ([]models.CustomerPrintingPrice, error) {
	if len(printingIDs) == 0 {
		return nil, nil
	}
	var rows []models.CustomerPrintingPrice
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND printing_id IN ? AND is_current = ?", customerID, printingIDs, true).
		Order("priority ASC").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// GetCustomerFinishPrices returns current finish overrides, best first.
func (r *Repository) GetCustomerFinishPrices(ctx context.Context, customerID uuid.UUID, finishIDs []uuid.UUID) ([]models.CustomerFinishPrice, error) {
	if len(finishIDs) == 0 {
		return nil, nil
	}
	var rows []models.CustomerFinishPrice
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND finish_id IN ? AND is_current = ?", customerID, finishIDs, true).
		Order("priority ASC").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// GetMarginRules returns every margin rule that could apply to the product:
// product-scoped rows for it, category-scoped rows for its category, and all
// global rows. Time-window filtering happens in the resolver so expired rows
// can still be logged.
func (r *Repository) GetMarginRules(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) ([]models.MarginRule, error) {
	var rows []models.MarginRule
	qb := r.db.WithContext(ctx).
		Where("(scope = ? AND product_id = ?) OR scope = ?", enums.RuleScopeProduct, productID, enums.RuleScopeGlobal)
	if categoryID != nil {
		qb = r.db.WithContext(ctx).
			Where("(scope = ? AND product_id = ?) OR (scope = ? AND category_id = ?) OR scope = ?",
				enums.RuleScopeProduct, productID, enums.RuleScopeCategory, *categoryID, enums.RuleScopeGlobal)
	}
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// GetDynamicRules returns tiered margin adjustments in scope for the product,
// highest priority first.
func (r *Repository) GetDynamicRules(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) ([]models.MarginRuleDynamic, error) {
	var rows []models.MarginRuleDynamic
	qb := r.db.WithContext(ctx).
		Where("(scope = ? AND product_id = ?) OR scope = ?", enums.RuleScopeProduct, productID, enums.RuleScopeGlobal)
	if categoryID != nil {
		qb = r.db.WithContext(ctx).
			Where("(scope = ? AND product_id = ?) OR (scope = ? AND category_id = ?) OR scope = ?",
				enums.RuleScopeProduct, productID, enums.RuleScopeCategory, *categoryID, enums.RuleScopeGlobal)
	}
	err := qb.Order("priority DESC").Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// GetCustomer loads a customer row.
func (r *Repository) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
