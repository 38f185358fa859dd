package service

// FeatureAligner turns a partial, unordered set of named fields into the
// fixed-order vector a fitted transform expects.
type FeatureAligner struct{}

// NewFeatureAligner creates a new FeatureAligner instance.
func NewFeatureAligner() *FeatureAligner {
	return &FeatureAligner{}
}

// Align returns one value per column, in column order. Columns missing from
// fields are zero; fields that are not columns are dropped. It never fails:
// partial input is tolerated, not rejected.
func (a *FeatureAligner) Align(fields map[string]float64, columns []string) []float64 {
	vec := make([]float64, len(columns))
	for i, name := range columns {
		vec[i] = fields[name]
	}
	return vec
}
