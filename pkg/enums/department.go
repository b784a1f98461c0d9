package enums

import "fmt"

// Department groups products into the store sections staff work from.
type Department string

const (
	DepartmentButcher Department = "butcher"
	DepartmentDeli    Department = "deli"
	DepartmentProduce Department = "produce"
	DepartmentBakery  Department = "bakery"
	DepartmentGrocery Department = "grocery"
)

var validDepartments = []Department{
	DepartmentButcher,
	DepartmentDeli,
	DepartmentProduce,
	DepartmentBakery,
	DepartmentGrocery,
}

// String implements fmt.Stringer.
func (d Department) String() string {
	return string(d)
}

// IsValid reports whether the value is a known Department.
func (d Department) IsValid() bool {
	for _, candidate := range validDepartments {
		if candidate == d {
			return true
		}
	}
	return false
}

// Departments returns the full set in display order.
func Departments() []Department {
	out := make([]Department, len(validDepartments))
	copy(out, validDepartments)
	return out
}

// ParseDepartment converts raw input into a Department.
func ParseDepartment(value string) (Department, error) {
	for _, candidate := range validDepartments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid department %q", value)
}
