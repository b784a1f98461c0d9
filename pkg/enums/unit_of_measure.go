package enums

import "fmt"

// UnitOfMeasure is the unit a product's quantity is sold in. Weight-based
// units are why cart and order item quantities are decimals, not integers.
type UnitOfMeasure string

const (
	UnitEach     UnitOfMeasure = "each"
	UnitPound    UnitOfMeasure = "lb"
	UnitKilogram UnitOfMeasure = "kg"
	UnitOunce    UnitOfMeasure = "oz"
)

var validUnitsOfMeasure = []UnitOfMeasure{
	UnitEach,
	UnitPound,
	UnitKilogram,
	UnitOunce,
}

// String implements fmt.Stringer.
func (u UnitOfMeasure) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UnitOfMeasure.
func (u UnitOfMeasure) IsValid() bool {
	for _, candidate := range validUnitsOfMeasure {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitOfMeasure converts raw input into a UnitOfMeasure.
func ParseUnitOfMeasure(value string) (UnitOfMeasure, error) {
	for _, candidate := range validUnitsOfMeasure {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit of measure %q", value)
}
