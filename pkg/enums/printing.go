package enums

import "fmt"

// PrintTechnology describes the allowed values for the printing `technology` column.
type PrintTechnology string

const (
	PrintTechnologyDigital     PrintTechnology = "digital"
	PrintTechnologyOffset      PrintTechnology = "offset"
	PrintTechnologyLargeFormat PrintTechnology = "large_format"
	PrintTechnologyScreen      PrintTechnology = "screen"
)

var validPrintTechnologies = []PrintTechnology{
	PrintTechnologyDigital,
	PrintTechnologyOffset,
	PrintTechnologyLargeFormat,
	PrintTechnologyScreen,
}

// IsValid reports whether the value matches the canonical print technology enum.
func (p PrintTechnology) IsValid() bool {
	for _, candidate := range validPrintTechnologies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrintTechnology converts the raw string to PrintTechnology.
func ParsePrintTechnology(value string) (PrintTechnology, error) {
	for _, candidate := range validPrintTechnologies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid print technology %q", value)
}

// ColorMode describes the allowed values for the printing `color_mode` column.
type ColorMode string

const (
	ColorModeCMYK ColorMode = "cmyk"
	ColorModeBW   ColorMode = "bw"
	ColorModeSpot ColorMode = "spot"
)

var validColorModes = []ColorMode{ColorModeCMYK, ColorModeBW, ColorModeSpot}

// IsValid reports whether the value matches the canonical color mode enum.
func (c ColorMode) IsValid() bool {
	for _, candidate := range validColorModes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseColorMode converts the raw string to ColorMode.
func ParseColorMode(value string) (ColorMode, error) {
	for _, candidate := range validColorModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid color mode %q", value)
}

// PrintSides describes the allowed values for the printing `sides` column.
type PrintSides string

const (
	PrintSidesSimplex PrintSides = "simplex"
	PrintSidesDuplex  PrintSides = "duplex"
)

var validPrintSides = []PrintSides{PrintSidesSimplex, PrintSidesDuplex}

// IsValid reports whether the value matches the canonical print sides enum.
func (p PrintSides) IsValid() bool {
	for _, candidate := range validPrintSides {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrintSides converts the raw string to PrintSides.
func ParsePrintSides(value string) (PrintSides, error) {
	for _, candidate := range validPrintSides {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid print sides %q", value)
}
