package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inkforge/printquote-backend/internal/catalog"
	"github.com/inkforge/printquote-backend/pkg/config"
	"github.com/inkforge/printquote-backend/pkg/db/models"
	"github.com/inkforge/printquote-backend/pkg/enums"
)

// rateResolver picks markup, margin, and dynamic adjustment for one run.
// Markup and margin are "most specific wins" down their fallback chains;
// only the dynamic layer ever sums, and only across stackable matches.
type rateResolver struct {
	repo catalog.Reader
	cfg  config.PricingConfig
}

func (r *rateResolver) resolve(ctx context.Context, product *models.Product, quantity int, subtotal decimal.Decimal, now time.Time) (Rates, error) {
	rates := Rates{
		Markup:  r.resolveMarkup(product),
		Dynamic: decimal.Zero,
	}

	rules, err := r.repo.GetMarginRules(ctx, product.ID, product.CategoryID)
	if err != nil {
		return Rates{}, fmt.Errorf("load margin rules: %w", err)
	}
	rates.Margin = r.resolveMargin(product, rules, now)

	dynamics, err := r.repo.GetDynamicRules(ctx, product.ID, product.CategoryID)
	if err != nil {
		return Rates{}, fmt.Errorf("load dynamic margin rules: %w", err)
	}
	rates.Dynamic = resolveDynamic(dynamics, quantity, subtotal)

	return rates, nil
}

func (r *rateResolver) resolveMarkup(product *models.Product) decimal.Decimal {
	if product.DefaultMarkup != nil {
		return *product.DefaultMarkup
	}
	if product.Category != nil && product.Category.DefaultMarkup != nil {
		return *product.Category.DefaultMarkup
	}
	return r.cfg.DefaultMarkup
}

// resolveMargin walks the scope chain most specific first and takes the first
// rule active right now. Scoped rules never combine.
func (r *rateResolver) resolveMargin(product *models.Product, rules []models.MarginRule, now time.Time) decimal.Decimal {
	for _, scope := range enums.ScopeChain {
		for _, rule := range rules {
			if rule.Scope != scope || !rule.ActiveAt(now) {
				continue
			}
			return rule.Margin
		}
	}
	if product.DefaultMargin != nil {
		return *product.DefaultMargin
	}
	return r.cfg.DefaultMargin
}

// resolveDynamic applies the tiered adjustments whose threshold the run
// satisfies. Rules arrive highest priority first. When the top match is
// stackable every stackable match sums; a non-stackable top match applies
// alone.
func resolveDynamic(rules []models.MarginRuleDynamic, quantity int, subtotal decimal.Decimal) decimal.Decimal {
	var matches []models.MarginRuleDynamic
	for _, rule := range rules {
		if dynamicRuleMatches(rule, quantity, subtotal) {
			matches = append(matches, rule)
		}
	}
	if len(matches) == 0 {
		return decimal.Zero
	}
	if !matches[0].Stackable {
		return matches[0].Adjustment
	}
	total := decimal.Zero
	for _, rule := range matches {
		if rule.Stackable {
			total = total.Add(rule.Adjustment)
		}
	}
	return total
}

func dynamicRuleMatches(rule models.MarginRuleDynamic, quantity int, subtotal decimal.Decimal) bool {
	if rule.MinQuantity != nil && quantity >= *rule.MinQuantity {
		return true
	}
	if rule.MinSubtotal != nil && subtotal.GreaterThanOrEqual(*rule.MinSubtotal) {
		return true
	}
	return false
}
