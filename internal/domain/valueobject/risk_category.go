package valueobject

import "fmt"

// RiskCategory is an immutable value object representing the human-readable
// outcome of a credit default prediction.
type RiskCategory struct {
	value string
}

var (
	RiskCategoryLow  = RiskCategory{value: "Low Risk"}
	RiskCategoryHigh = RiskCategory{value: "High Risk"}
)

// RiskCategoryFromLabel maps a classifier label to its category.
// Label 1 is High Risk; every other value is Low Risk.
func RiskCategoryFromLabel(label int) RiskCategory {
	if label == 1 {
		return RiskCategoryHigh
	}
	return RiskCategoryLow
}

// RiskCategoryFromString reconstructs a RiskCategory from its string representation.
func RiskCategoryFromString(s string) (RiskCategory, error) {
	switch s {
	case RiskCategoryLow.value:
		return RiskCategoryLow, nil
	case RiskCategoryHigh.value:
		return RiskCategoryHigh, nil
	default:
		return RiskCategory{}, fmt.Errorf("invalid risk category: %q", s)
	}
}

// String returns the string representation.
func (r RiskCategory) String() string {
	return r.value
}

// Equal checks equality with another RiskCategory.
func (r RiskCategory) Equal(other RiskCategory) bool {
	return r.value == other.value
}
