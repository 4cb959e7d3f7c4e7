package pricing

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inkforge/printquote-backend/internal/catalog"
	"github.com/inkforge/printquote-backend/pkg/config"
	"github.com/inkforge/printquote-backend/pkg/db/models"
	"github.com/inkforge/printquote-backend/pkg/enums"
	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
	"github.com/inkforge/printquote-backend/pkg/logger"
)

type stubCatalog struct {
	product        *models.Product
	customer       *models.Customer
	choices        []models.ProductOptionChoice
	materials      map[uuid.UUID]*models.Material
	variants       map[uuid.UUID]*models.MaterialVariant
	finishes       map[uuid.UUID]*models.Finish
	materialPrices map[uuid.UUID][]models.CustomerMaterialPrice
	printingPrices map[uuid.UUID][]models.CustomerPrintingPrice
	finishPrices   map[uuid.UUID][]models.CustomerFinishPrice
	marginRules    []models.MarginRule
	dynamicRules   []models.MarginRuleDynamic
}

func (s *stubCatalog) WithTx(tx *gorm.DB) catalog.Reader {
	return s
}

func (s *stubCatalog) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func (s *stubCatalog) GetOptionChoices(ctx context.Context, ids []uuid.UUID) ([]models.ProductOptionChoice, error) {
	var out []models.ProductOptionChoice
	for _, id := range ids {
		for _, choice := range s.choices {
			if choice.ID == id {
				out = append(out, choice)
			}
		}
	}
	return out, nil
}

func (s *stubCatalog) GetMaterialVariant(ctx context.Context, id uuid.UUID) (*models.MaterialVariant, *models.Material, error) {
	variant, ok := s.variants[id]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	parent, ok := s.materials[variant.MaterialID]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return variant, parent, nil
}

func (s *stubCatalog) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	material, ok := s.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return material, nil
}

func (s *stubCatalog) GetFinish(ctx context.Context, id uuid.UUID) (*models.Finish, error) {
	finish, ok := s.finishes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return finish, nil
}

func (s *stubCatalog) GetCustomerMaterialPrices(ctx context.Context, customerID uuid.UUID, materialIDs []uuid.UUID) ([]models.CustomerMaterialPrice, error) {
	var out []models.CustomerMaterialPrice
	for _, id := range materialIDs {
		out = append(out, s.materialPrices[id]...)
	}
	return out, nil
}

func (s *stubCatalog) GetCustomerPrintingPrices(ctx context.Context, customerID uuid.UUID, printingIDs []uuid.UUID) ([]models.CustomerPrintingPrice, error) {
	var out []models.CustomerPrintingPrice
	for _, id := range printingIDs {
		out = append(out, s.printingPrices[id]...)
	}
	return out, nil
}

func (s *stubCatalog) GetCustomerFinishPrices(ctx context.Context, customerID uuid.UUID, finishIDs []uuid.UUID) ([]models.CustomerFinishPrice, error) {
	var out []models.CustomerFinishPrice
	for _, id := range finishIDs {
		out = append(out, s.finishPrices[id]...)
	}
	return out, nil
}

func (s *stubCatalog) GetMarginRules(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) ([]models.MarginRule, error) {
	return s.marginRules, nil
}

func (s *stubCatalog) GetDynamicRules(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) ([]models.MarginRuleDynamic, error) {
	return s.dynamicRules, nil
}

func (s *stubCatalog) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if s.customer == nil || s.customer.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customer, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testConfig() config.PricingConfig {
	return config.PricingConfig{
		DefaultMarkup:          d("0.15"),
		DefaultMargin:          d("0.30"),
		VATPercent:             d("0.20"),
		MatrixWorkers:          4,
		MaxMatrixQuantities:    50,
		EstimatedHoursFallback: 1,
	}
}

func newTestService(t *testing.T, repo catalog.Reader) Service {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "pricing-test", Output: io.Discard})
	svc, err := NewService(repo, stubTx{}, testConfig(), log, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

// cardProduct is the baseline fixture: a 100x100mm piece on a 500x200mm sheet
// (10 pieces per sheet), 0.05 per sheet, 3% loss, digital printing at 0.02
// per piece, 20% markup, 30% margin, no rounding step.
func cardProduct() (*stubCatalog, *models.Product) {
	markup := d("0.20")
	margin := d("0.30")
	sheetW, sheetH := 500.0, 200.0

	material := &models.Material{
		ID:            uuid.New(),
		Name:          "Coated 300gsm",
		Unit:          enums.MaterialUnitSheet,
		UnitCost:      d("0.05"),
		SheetWidthMM:  &sheetW,
		SheetHeightMM: &sheetH,
		IsActive:      true,
	}
	printing := &models.Printing{
		ID:         uuid.New(),
		Name:       "Digital CMYK",
		Technology: enums.PrintTechnologyDigital,
		ColorMode:  enums.ColorModeCMYK,
		Sides:      enums.PrintSidesSimplex,
		UnitPrice:  d("0.02"),
	}
	product := &models.Product{
		ID:            uuid.New(),
		SKU:           "CARD-100",
		Name:          "Square Cards",
		WidthMM:       100,
		HeightMM:      100,
		PrintingID:    &printing.ID,
		Printing:      printing,
		DefaultMarkup: &markup,
		DefaultMargin: &margin,
		MinOrderQty:   1,
		IsActive:      true,
	}
	product.Materials = []models.ProductMaterial{{
		ID:         uuid.New(),
		ProductID:  product.ID,
		MaterialID: material.ID,
		Material:   material,
		QtyPerUnit: 1,
		LossFactor: 0.03,
	}}

	repo := &stubCatalog{
		product:   product,
		materials: map[uuid.UUID]*models.Material{material.ID: material},
		variants:  map[uuid.UUID]*models.MaterialVariant{},
		finishes:  map[uuid.UUID]*models.Finish{},
	}
	return repo, product
}

func TestPriceOneEndToEnd(t *testing.T) {
	repo, product := cardProduct()
	svc := newTestService(t, repo)

	breakdown, err := svc.PriceOne(context.Background(), PriceInput{ProductID: product.ID, Quantity: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100 pieces / 10 per sheet = 10 sheets, x1.03 loss -> 11 sheets x 0.05.
	if !breakdown.CostMaterial.Equal(d("0.55")) {
		t.Fatalf("expected material cost 0.55, got %s", breakdown.CostMaterial)
	}
	if !breakdown.CostPrinting.Equal(d("2.00")) {
		t.Fatalf("expected printing cost 2.00, got %s", breakdown.CostPrinting)
	}
	if !breakdown.Subtotal.Equal(d("2.55")) {
		t.Fatalf("expected subtotal 2.55, got %s", breakdown.Subtotal)
	}
	if !breakdown.PriceNet.Equal(d("3.978")) {
		t.Fatalf("expected net 3.978, got %s", breakdown.PriceNet)
	}
	if !breakdown.PriceGross.Equal(d("4.7736")) {
		t.Fatalf("expected gross 4.7736, got %s", breakdown.PriceGross)
	}
	if !breakdown.VATAmount.Equal(breakdown.PriceGross.Sub(breakdown.PriceNet)) {
		t.Fatal("vat amount must be gross minus net")
	}
	if breakdown.MinOrderApplied {
		t.Fatal("min order must not apply")
	}
	if len(breakdown.Lines) != 2 {
		t.Fatalf("expected 2 audit lines, got %d", len(breakdown.Lines))
	}
}

func TestPriceOneRejectsNonPositiveQuantity(t *testing.T) {
	repo, product := cardProduct()
	svc := newTestService(t, repo)

	_, err := svc.PriceOne(context.Background(), PriceInput{ProductID: product.ID, Quantity: 0})
	if perr := pkgerrors.As(err); perr == nil || perr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPriceOneUnknownProduct(t *testing.T) {
	repo, _ := cardProduct()
	svc := newTestService(t, repo)

	_, err := svc.PriceOne(context.Background(), PriceInput{ProductID: uuid.New(), Quantity: 10})
	if perr := pkgerrors.As(err); perr == nil || perr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPriceOneInactiveProduct(t *testing.T) {
	repo, product := cardProduct()
	product.IsActive = false
	svc := newTestService(t, repo)

	_, err := svc.PriceOne(context.Background(), PriceInput{ProductID: product.ID, Quantity: 10})
	if perr := pkgerrors.As(err); perr == nil || perr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPriceOneRejectsForeignChoice(t *testing.T) {
	repo, product := cardProduct()
	foreign := models.ProductOptionChoice{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		ProductID: uuid.New(),
		Name:      "Not yours",
	}
	repo.choices = []models.ProductOptionChoice{foreign}
	svc := newTestService(t, repo)

	_, err := svc.PriceOne(context.Background(), PriceInput{
		ProductID: product.ID,
		Quantity:  10,
		ChoiceIDs: []uuid.UUID{foreign.ID},
	})
	if perr := pkgerrors.As(err); perr == nil || perr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPriceOneAppliesChoiceAdjustments(t *testing.T) {
	repo, product := cardProduct()
	adj := d("0.10")
	fixed := d("1.00")
	choice := models.ProductOptionChoice{
		ID:              uuid.New(),
		GroupID:         uuid.New(),
		ProductID:       product.ID,
		Name:            "Premium pack",
		PriceAdjustment: &adj,
		PriceFixed:      &fixed,
	}
	repo.choices = []models.ProductOptionChoice{choice}
	svc := newTestService(t, repo)

	breakdown, err := svc.PriceOne(context.Background(), PriceInput{
		ProductID: product.ID,
		Quantity:  100,
		ChoiceIDs: []uuid.UUID{choice.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// (0.55 + 2.00 + 1.00) x 1.10 = 3.905
	if !breakdown.Subtotal.Equal(d("3.905")) {
		t.Fatalf("expected subtotal 3.905, got %s", breakdown.Subtotal)
	}
	if len(breakdown.ChoiceIDs) != 1 || breakdown.ChoiceIDs[0] != choice.ID {
		t.Fatalf("expected matched choice recorded, got %v", breakdown.ChoiceIDs)
	}
}

func TestPriceOneCustomerOverrideAndVATExempt(t *testing.T) {
	repo, product := cardProduct()
	materialID := product.Materials[0].MaterialID
	customer := &models.Customer{ID: uuid.New(), Name: "Acme", VATExempt: true}
	repo.customer = customer
	repo.materialPrices = map[uuid.UUID][]models.CustomerMaterialPrice{
		materialID: {{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			MaterialID: materialID,
			Price:      d("0.03"),
			Priority:   0,
			IsCurrent:  true,
		}},
	}
	svc := newTestService(t, repo)

	breakdown, err := svc.PriceOne(context.Background(), PriceInput{
		ProductID:  product.ID,
		Quantity:   100,
		CustomerID: &customer.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 11 sheets x 0.03 instead of 0.05.
	if !breakdown.CostMaterial.Equal(d("0.33")) {
		t.Fatalf("expected material cost 0.33, got %s", breakdown.CostMaterial)
	}
	if !breakdown.VATAmount.IsZero() {
		t.Fatalf("expected zero VAT for exempt customer, got %s", breakdown.VATAmount)
	}
	if !breakdown.PriceGross.Equal(breakdown.PriceNet) {
		t.Fatal("gross must equal net for VAT-exempt customers")
	}
}

func TestPriceOneCustomerOverrideIdempotent(t *testing.T) {
	repo, product := cardProduct()
	materialID := product.Materials[0].MaterialID
	customer := &models.Customer{ID: uuid.New(), Name: "Acme"}
	repo.customer = customer
	repo.materialPrices = map[uuid.UUID][]models.CustomerMaterialPrice{
		materialID: {{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			MaterialID: materialID,
			Price:      d("0.04"),
			IsCurrent:  true,
		}},
	}
	svc := newTestService(t, repo)

	input := PriceInput{ProductID: product.ID, Quantity: 100, CustomerID: &customer.ID}
	first, err := svc.PriceOne(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.PriceOne(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.PriceNet.Equal(second.PriceNet) || !first.PriceGross.Equal(second.PriceGross) {
		t.Fatal("identical inputs must price identically")
	}
}

func TestPriceOneMarginRulePrecedence(t *testing.T) {
	repo, product := cardProduct()
	product.DefaultMargin = nil
	categoryID := uuid.New()
	product.CategoryID = &categoryID
	repo.marginRules = []models.MarginRule{
		{ID: uuid.New(), Scope: enums.RuleScopeCategory, CategoryID: &categoryID, Margin: d("0.50")},
		{ID: uuid.New(), Scope: enums.RuleScopeProduct, ProductID: &product.ID, Margin: d("0.10")},
	}
	svc := newTestService(t, repo)

	breakdown, err := svc.PriceOne(context.Background(), PriceInput{ProductID: product.ID, Quantity: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !breakdown.Margin.Equal(d("0.10")) {
		t.Fatalf("product-scope rule must win, got margin %s", breakdown.Margin)
	}
}

func TestPriceOneRoundingStep(t *testing.T) {
	repo, product := cardProduct()
	step := d("0.50")
	product.RoundingStep = &step
	product.RoundingStrategy = enums.RoundingUp
	svc := newTestService(t, repo)

	breakdown, err := svc.PriceOne(context.Background(), PriceInput{ProductID: product.ID, Quantity: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3.978 rounded up to the next 0.50 step.
	if !breakdown.PriceNet.Equal(d("4.00")) {
		t.Fatalf("expected net 4.00, got %s", breakdown.PriceNet)
	}
	if !breakdown.PriceNet.Mod(step).IsZero() {
		t.Fatal("rounded price must be a multiple of the step")
	}
}

func TestPriceOneMinimumOrderValue(t *testing.T) {
	repo, product := cardProduct()
	minValue := d("25.00")
	product.MinOrderValue = &minValue
	product.MinOrderQty = 50
	svc := newTestService(t, repo)

	breakdown, err := svc.PriceOne(context.Background(), PriceInput{ProductID: product.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !breakdown.MinOrderApplied {
		t.Fatal("expected min order to apply")
	}
	if !breakdown.PriceNet.Equal(minValue) {
		t.Fatalf("expected net raised to 25.00, got %s", breakdown.PriceNet)
	}
	if breakdown.MinOrderReason == "" {
		t.Fatal("expected a human-readable reason")
	}
}

func TestSubtotalNonDecreasingInQuantity(t *testing.T) {
	repo, product := cardProduct()
	svc := newTestService(t, repo)

	previous := decimal.Zero
	for _, quantity := range []int{1, 5, 10, 50, 100, 250, 1000} {
		breakdown, err := svc.PriceOne(context.Background(), PriceInput{ProductID: product.ID, Quantity: quantity})
		if err != nil {
			t.Fatalf("quantity %d: %v", quantity, err)
		}
		if breakdown.Subtotal.LessThan(previous) {
			t.Fatalf("subtotal decreased at quantity %d: %s < %s", quantity, breakdown.Subtotal, previous)
		}
		previous = breakdown.Subtotal
	}
}

func TestPriceMatrixIsolatesRowFailures(t *testing.T) {
	repo, product := cardProduct()
	svc := newTestService(t, repo)

	rows, err := svc.PriceMatrix(context.Background(), MatrixInput{
		ProductID:  product.ID,
		Quantities: []int{100, -5, 200},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Quantity != 100 || rows[1].Quantity != -5 || rows[2].Quantity != 200 {
		t.Fatalf("rows must preserve input order: %+v", rows)
	}
	if rows[0].Error != "" || rows[2].Error != "" {
		t.Fatalf("valid rows must not fail: %+v", rows)
	}
	if rows[1].Error == "" {
		t.Fatal("invalid quantity must produce a row error")
	}
	if !rows[1].PriceNet.IsZero() || !rows[1].PriceGross.IsZero() {
		t.Fatal("failed rows must carry zero prices")
	}
	if !rows[0].PriceNet.Equal(d("3.978")) {
		t.Fatalf("expected row net 3.978, got %s", rows[0].PriceNet)
	}
}

func TestPriceMatrixRejectsEmptyAndOversized(t *testing.T) {
	repo, product := cardProduct()
	svc := newTestService(t, repo)

	_, err := svc.PriceMatrix(context.Background(), MatrixInput{ProductID: product.ID})
	if perr := pkgerrors.As(err); perr == nil || perr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty quantities, got %v", err)
	}

	quantities := make([]int, 51)
	for i := range quantities {
		quantities[i] = i + 1
	}
	_, err = svc.PriceMatrix(context.Background(), MatrixInput{ProductID: product.ID, Quantities: quantities})
	if perr := pkgerrors.As(err); perr == nil || perr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for oversized matrix, got %v", err)
	}
}
