package enums

import "fmt"

// FinishCalcType selects the costing formula for a finishing operation.
type FinishCalcType string

const (
	FinishCalcPerUnit FinishCalcType = "per_unit"
	FinishCalcPerM2   FinishCalcType = "per_m2"
	FinishCalcPerLot  FinishCalcType = "per_lot"
	FinishCalcPerHour FinishCalcType = "per_hour"
)

var validFinishCalcTypes = []FinishCalcType{
	FinishCalcPerUnit,
	FinishCalcPerM2,
	FinishCalcPerLot,
	FinishCalcPerHour,
}

// IsValid reports whether the value matches the canonical finish calc type enum.
func (f FinishCalcType) IsValid() bool {
	for _, candidate := range validFinishCalcTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFinishCalcType converts the raw string to FinishCalcType.
func ParseFinishCalcType(value string) (FinishCalcType, error) {
	for _, candidate := range validFinishCalcTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid finish calc type %q", value)
}
