package enums

import "fmt"

// RuleScope is the specificity level a margin rule applies at.
// Resolution walks product → category → global and stops at the first hit.
type RuleScope string

const (
	RuleScopeGlobal   RuleScope = "global"
	RuleScopeCategory RuleScope = "category"
	RuleScopeProduct  RuleScope = "product"
)

var validRuleScopes = []RuleScope{
	RuleScopeGlobal,
	RuleScopeCategory,
	RuleScopeProduct,
}

// ScopeChain lists scopes from most to least specific.
var ScopeChain = []RuleScope{
	RuleScopeProduct,
	RuleScopeCategory,
	RuleScopeGlobal,
}

// IsValid reports whether the value matches the canonical rule scope enum.
func (r RuleScope) IsValid() bool {
	for _, candidate := range validRuleScopes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleScope converts the raw string to RuleScope.
func ParseRuleScope(value string) (RuleScope, error) {
	for _, candidate := range validRuleScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule scope %q", value)
}
