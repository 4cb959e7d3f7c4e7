package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkforge/printquote-backend/pkg/db/models"
	"github.com/inkforge/printquote-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  default_markup TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS materials (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  unit TEXT NOT NULL,
  unit_cost TEXT NOT NULL,
  supplier_cost TEXT,
  sheet_width_mm REAL,
  sheet_height_mm REAL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS material_variants (
  id TEXT PRIMARY KEY,
  material_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_cost TEXT,
  pack_size INTEGER,
  sheet_width_mm REAL,
  sheet_height_mm REAL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS printings (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  technology TEXT NOT NULL,
  color_mode TEXT NOT NULL,
  sides TEXT NOT NULL DEFAULT 'simplex',
  unit_price TEXT NOT NULL,
  setup_fee TEXT,
  setup_minutes INTEGER,
  minute_rate TEXT,
  min_fee TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS finishes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  calc_type TEXT NOT NULL,
  base_cost TEXT NOT NULL,
  min_fee TEXT,
  area_step_m2 REAL,
  estimated_hours REAL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  width_mm REAL NOT NULL,
  height_mm REAL NOT NULL,
  tags TEXT,
  category_id TEXT,
  printing_id TEXT,
  default_markup TEXT,
  default_margin TEXT,
  rounding_step TEXT,
  rounding_strategy TEXT NOT NULL DEFAULT 'nearest',
  min_order_qty INTEGER NOT NULL DEFAULT 1,
  min_order_value TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_materials (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  material_id TEXT NOT NULL,
  qty_per_unit REAL NOT NULL DEFAULT 1,
  waste_factor REAL NOT NULL DEFAULT 0,
  loss_factor REAL NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_finishes (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  finish_id TEXT NOT NULL,
  qty_per_unit REAL NOT NULL DEFAULT 1,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_dimensions (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  label TEXT NOT NULL,
  width_mm REAL NOT NULL,
  height_mm REAL NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_option_groups (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  required INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_option_choices (
  id TEXT PRIMARY KEY,
  group_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  material_variant_id TEXT,
  material_id TEXT,
  finish_id TEXT,
  finish_qty_per_unit REAL,
  width_mm REAL,
  height_mm REAL,
  price_adjustment TEXT,
  price_fixed TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS margin_rules (
  id TEXT PRIMARY KEY,
  scope TEXT NOT NULL,
  margin TEXT NOT NULL,
  category_id TEXT,
  product_id TEXT,
  active_from DATETIME,
  active_until DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS margin_rule_dynamics (
  id TEXT PRIMARY KEY,
  scope TEXT NOT NULL,
  category_id TEXT,
  product_id TEXT,
  min_quantity INTEGER,
  min_subtotal TEXT,
  adjustment TEXT NOT NULL,
  priority INTEGER NOT NULL DEFAULT 0,
  stackable INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  vat_exempt INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS customer_material_prices (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  material_id TEXT NOT NULL,
  price TEXT NOT NULL,
  priority INTEGER NOT NULL DEFAULT 0,
  is_current INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS customer_printing_prices (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  printing_id TEXT NOT NULL,
  price TEXT NOT NULL,
  priority INTEGER NOT NULL DEFAULT 0,
  is_current INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS customer_finish_prices (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  finish_id TEXT NOT NULL,
  price TEXT NOT NULL,
  priority INTEGER NOT NULL DEFAULT 0,
  is_current INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func mustCreateMaterial(t *testing.T, db *gorm.DB) *models.Material {
	t.Helper()
	w, h := 450.0, 320.0
	material := &models.Material{
		ID:            uuid.New(),
		Name:          "Coated 300gsm",
		Unit:          enums.MaterialUnitSheet,
		UnitCost:      decimal.RequireFromString("0.05"),
		SheetWidthMM:  &w,
		SheetHeightMM: &h,
		IsActive:      true,
	}
	require.NoError(t, db.Create(material).Error)
	return material
}

func mustCreatePrinting(t *testing.T, db *gorm.DB) *models.Printing {
	t.Helper()
	printing := &models.Printing{
		ID:         uuid.New(),
		Name:       "Digital CMYK",
		Technology: enums.PrintTechnologyDigital,
		ColorMode:  enums.ColorModeCMYK,
		Sides:      enums.PrintSidesSimplex,
		UnitPrice:  decimal.RequireFromString("0.02"),
	}
	require.NoError(t, db.Create(printing).Error)
	return printing
}

func mustCreateProduct(t *testing.T, db *gorm.DB, printingID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:               uuid.New(),
		SKU:              "BC-STD-" + uuid.NewString()[:8],
		Name:             "Business Cards",
		WidthMM:          85,
		HeightMM:         55,
		PrintingID:       &printingID,
		RoundingStrategy: enums.RoundingNearest,
		MinOrderQty:      1,
		IsActive:         true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestGetProductDetailPreloadsRecipe(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	material := mustCreateMaterial(t, db)
	printing := mustCreatePrinting(t, db)
	product := mustCreateProduct(t, db, printing.ID)

	require.NoError(t, db.Create(&models.ProductMaterial{
		ID:         uuid.New(),
		ProductID:  product.ID,
		MaterialID: material.ID,
		QtyPerUnit: 1,
		LossFactor: 0.03,
	}).Error)

	group := &models.ProductOptionGroup{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Lamination",
		Position:  1,
	}
	require.NoError(t, db.Create(group).Error)
	require.NoError(t, db.Create(&models.ProductOptionChoice{
		ID:        uuid.New(),
		GroupID:   group.ID,
		ProductID: product.ID,
		Name:      "Matte",
		Position:  2,
	}).Error)
	require.NoError(t, db.Create(&models.ProductOptionChoice{
		ID:        uuid.New(),
		GroupID:   group.ID,
		ProductID: product.ID,
		Name:      "Gloss",
		Position:  1,
	}).Error)

	detail, err := repo.GetProductDetail(ctx, product.ID)
	require.NoError(t, err)

	require.Len(t, detail.Materials, 1)
	require.NotNil(t, detail.Materials[0].Material)
	assert.Equal(t, material.Name, detail.Materials[0].Material.Name)
	require.NotNil(t, detail.Printing)
	assert.Equal(t, printing.Name, detail.Printing.Name)
	require.Len(t, detail.OptionGroups, 1)
	require.Len(t, detail.OptionGroups[0].Choices, 2)
	assert.Equal(t, "Gloss", detail.OptionGroups[0].Choices[0].Name)
}

func TestGetProductDetailNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetProductDetail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetCustomerMaterialPricesOrdering(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	material := mustCreateMaterial(t, db)
	customer := &models.Customer{ID: uuid.New(), Name: "Acme Print Buyers"}
	require.NoError(t, db.Create(customer).Error)

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	rows := []models.CustomerMaterialPrice{
		{ID: uuid.New(), CustomerID: customer.ID, MaterialID: material.ID, Price: decimal.RequireFromString("0.040"), Priority: 5, IsCurrent: true, CreatedAt: base},
		{ID: uuid.New(), CustomerID: customer.ID, MaterialID: material.ID, Price: decimal.RequireFromString("0.030"), Priority: 1, IsCurrent: true, CreatedAt: base},
		{ID: uuid.New(), CustomerID: customer.ID, MaterialID: material.ID, Price: decimal.RequireFromString("0.035"), Priority: 1, IsCurrent: true, CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), CustomerID: customer.ID, MaterialID: material.ID, Price: decimal.RequireFromString("0.010"), Priority: 0, IsCurrent: false, CreatedAt: base},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	got, err := repo.GetCustomerMaterialPrices(ctx, customer.ID, []uuid.UUID{material.ID})
	require.NoError(t, err)
	require.Len(t, got, 3, "stale rows must be excluded")
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("0.035")), "newest row wins the duplicated priority")
	assert.True(t, got[1].Price.Equal(decimal.RequireFromString("0.030")))
	assert.Equal(t, 5, got[2].Priority)
}

func TestGetCustomerMaterialPricesEmptyInput(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	got, err := repo.GetCustomerMaterialPrices(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetMarginRulesScoping(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	printing := mustCreatePrinting(t, db)
	product := mustCreateProduct(t, db, printing.ID)
	category := &models.Category{ID: uuid.New(), Name: "Cards"}
	require.NoError(t, db.Create(category).Error)

	otherProduct := uuid.New()
	rules := []models.MarginRule{
		{ID: uuid.New(), Scope: enums.RuleScopeGlobal, Margin: decimal.RequireFromString("0.30")},
		{ID: uuid.New(), Scope: enums.RuleScopeCategory, CategoryID: &category.ID, Margin: decimal.RequireFromString("0.25")},
		{ID: uuid.New(), Scope: enums.RuleScopeProduct, ProductID: &product.ID, Margin: decimal.RequireFromString("0.20")},
		{ID: uuid.New(), Scope: enums.RuleScopeProduct, ProductID: &otherProduct, Margin: decimal.RequireFromString("0.99")},
	}
	for i := range rules {
		require.NoError(t, db.Create(&rules[i]).Error)
	}

	got, err := repo.GetMarginRules(ctx, product.ID, &category.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, rule := range got {
		assert.False(t, rule.Margin.Equal(decimal.RequireFromString("0.99")), "foreign product rule leaked")
	}

	got, err = repo.GetMarginRules(ctx, product.ID, nil)
	require.NoError(t, err)
	require.Len(t, got, 2, "category rules need a category")
}

func TestGetOptionChoicesByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	printing := mustCreatePrinting(t, db)
	product := mustCreateProduct(t, db, printing.ID)
	group := &models.ProductOptionGroup{ID: uuid.New(), ProductID: product.ID, Name: "Size"}
	require.NoError(t, db.Create(group).Error)

	choice := &models.ProductOptionChoice{
		ID:        uuid.New(),
		GroupID:   group.ID,
		ProductID: product.ID,
		Name:      "A5",
	}
	require.NoError(t, db.Create(choice).Error)

	got, err := repo.GetOptionChoices(ctx, []uuid.UUID{choice.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, got, 1, "unknown ids are dropped, not errors")
	assert.Equal(t, "A5", got[0].Name)

	got, err = repo.GetOptionChoices(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
