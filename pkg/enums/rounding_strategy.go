package enums

import "fmt"

// RoundingStrategy controls how a product's rounding step is applied to the
// final price.
type RoundingStrategy string

const (
	RoundingNearest RoundingStrategy = "nearest"
	RoundingUp      RoundingStrategy = "up"
	RoundingDown    RoundingStrategy = "down"
)

var validRoundingStrategies = []RoundingStrategy{
	RoundingNearest,
	RoundingUp,
	RoundingDown,
}

// IsValid reports whether the value matches the canonical rounding strategy enum.
func (r RoundingStrategy) IsValid() bool {
	for _, candidate := range validRoundingStrategies {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoundingStrategy converts the raw string to RoundingStrategy.
func ParseRoundingStrategy(value string) (RoundingStrategy, error) {
	for _, candidate := range validRoundingStrategies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rounding strategy %q", value)
}
