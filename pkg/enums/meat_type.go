package enums

import "fmt"

// MeatType is a butcher/deli-specific product attribute; empty for
// products outside those departments.
type MeatType string

const (
	MeatTypeBeef    MeatType = "beef"
	MeatTypePork    MeatType = "pork"
	MeatTypePoultry MeatType = "poultry"
	MeatTypeLamb    MeatType = "lamb"
	MeatTypeSeafood MeatType = "seafood"
)

var validMeatTypes = []MeatType{
	MeatTypeBeef,
	MeatTypePork,
	MeatTypePoultry,
	MeatTypeLamb,
	MeatTypeSeafood,
}

// String implements fmt.Stringer.
func (m MeatType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MeatType.
func (m MeatType) IsValid() bool {
	for _, candidate := range validMeatTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMeatType converts raw input into a MeatType.
func ParseMeatType(value string) (MeatType, error) {
	for _, candidate := range validMeatTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meat type %q", value)
}
