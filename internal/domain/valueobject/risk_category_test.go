package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

func TestRiskCategory_FromLabel(t *testing.T) {
	tests := []struct {
		name     string
		expected valueobject.RiskCategory
		label    int
	}{
		{name: "label 0 is Low Risk", expected: valueobject.RiskCategoryLow, label: 0},
		{name: "label 1 is High Risk", expected: valueobject.RiskCategoryHigh, label: 1},
		{name: "label 2 is Low Risk", expected: valueobject.RiskCategoryLow, label: 2},
		{name: "negative label is Low Risk", expected: valueobject.RiskCategoryLow, label: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := valueobject.RiskCategoryFromLabel(tt.label)
			assert.True(t, tt.expected.Equal(result),
				"expected %s for label %d, got %s", tt.expected, tt.label, result)
		})
	}
}

func TestRiskCategory_String(t *testing.T) {
	assert.Equal(t, "Low Risk", valueobject.RiskCategoryLow.String())
	assert.Equal(t, "High Risk", valueobject.RiskCategoryHigh.String())
}

func TestRiskCategory_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskCategory
		wantErr  bool
	}{
		{"Low Risk", valueobject.RiskCategoryLow, false},
		{"High Risk", valueobject.RiskCategoryHigh, false},
		{"Medium Risk", valueobject.RiskCategory{}, true},
		{"high risk", valueobject.RiskCategory{}, true},
		{"", valueobject.RiskCategory{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskCategoryFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(result))
			}
		})
	}
}
