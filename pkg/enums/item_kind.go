package enums

import "fmt"

// ItemKind classifies a quote line item and scopes customer price overrides.
type ItemKind string

const (
	ItemKindMaterial   ItemKind = "material"
	ItemKindPrinting   ItemKind = "printing"
	ItemKindFinish     ItemKind = "finish"
	ItemKindAdjustment ItemKind = "adjustment"
)

var validItemKinds = []ItemKind{
	ItemKindMaterial,
	ItemKindPrinting,
	ItemKindFinish,
	ItemKindAdjustment,
}

// IsValid reports whether the value matches the canonical item kind enum.
func (i ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemKind converts the raw string to ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}
