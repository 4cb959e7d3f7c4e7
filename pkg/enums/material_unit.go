package enums

import "fmt"

// MaterialUnit describes the stock unit a material is purchased and costed in.
// The unit decides which costing formula the cost composer applies.
type MaterialUnit string

const (
	MaterialUnitSheet MaterialUnit = "sheet"
	MaterialUnitM2    MaterialUnit = "m2"
	MaterialUnitUnit  MaterialUnit = "unit"
	MaterialUnitLot   MaterialUnit = "lot"
	MaterialUnitHour  MaterialUnit = "hour"
)

var validMaterialUnits = []MaterialUnit{
	MaterialUnitSheet,
	MaterialUnitM2,
	MaterialUnitUnit,
	MaterialUnitLot,
	MaterialUnitHour,
}

// IsValid reports whether the value matches the canonical material unit enum.
func (m MaterialUnit) IsValid() bool {
	for _, candidate := range validMaterialUnits {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaterialUnit converts the raw string to MaterialUnit.
func ParseMaterialUnit(value string) (MaterialUnit, error) {
	for _, candidate := range validMaterialUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material unit %q", value)
}
