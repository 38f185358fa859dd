package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchema is returned when a feature schema cannot be constructed.
var ErrInvalidSchema = errors.New("invalid feature schema")

// Column names of the credit default dataset, in training order.
const (
	FeatureLimitBal  = "LIMIT_BAL"
	FeatureSex       = "SEX"
	FeatureEducation = "EDUCATION"
	FeatureMarriage  = "MARRIAGE"
	FeatureAge       = "AGE"
)

var defaultFeatureNames = []string{
	FeatureLimitBal, FeatureSex, FeatureEducation, FeatureMarriage, FeatureAge,
	"PAY_0", "PAY_2", "PAY_3", "PAY_4", "PAY_5", "PAY_6",
	"BILL_AMT1", "BILL_AMT2", "BILL_AMT3", "BILL_AMT4", "BILL_AMT5", "BILL_AMT6",
	"PAY_AMT1", "PAY_AMT2", "PAY_AMT3", "PAY_AMT4", "PAY_AMT5", "PAY_AMT6",
}

// FeatureSchema is the ordered set of named numeric columns a transform was fit on.
type FeatureSchema struct {
	names []string
	index map[string]int
}

// NewFeatureSchema builds a schema from column names. Names must be non-empty
// and unique; order is preserved.
func NewFeatureSchema(names []string) (FeatureSchema, error) {
	if len(names) == 0 {
		return FeatureSchema{}, fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return FeatureSchema{}, fmt.Errorf("%w: blank column name at position %d", ErrInvalidSchema, i)
		}
		if _, dup := index[name]; dup {
			return FeatureSchema{}, fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, name)
		}
		index[name] = i
	}

	return FeatureSchema{
		names: append([]string(nil), names...),
		index: index,
	}, nil
}

// DefaultFeatureSchema returns the 23 columns of the credit default dataset.
func DefaultFeatureSchema() FeatureSchema {
	s, _ := NewFeatureSchema(defaultFeatureNames)
	return s
}

// Names returns a copy of the column names in order.
func (s FeatureSchema) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of columns.
func (s FeatureSchema) Len() int {
	return len(s.names)
}

// Index returns the position of a column, or -1 if it is not part of the schema.
func (s FeatureSchema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Contains reports whether the column is part of the schema.
func (s FeatureSchema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}
