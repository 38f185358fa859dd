// Package artifact holds the fitted scaling transform and classifier that the
// serving path loads once at startup. Both are exported by the training job
// as JSON documents and are read-only after loading.
package artifact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

// ScalerDocument is the on-disk form of a fitted StandardScaler.
type ScalerDocument struct {
	FeatureNamesIn []string  `json:"feature_names_in"`
	Mean           []float64 `json:"mean"`
	Scale          []float64 `json:"scale"`
}

// StandardScaler standardizes features as (x - mean) / scale.
type StandardScaler struct {
	schema valueobject.FeatureSchema
	mean   *mat.VecDense
	scale  *mat.VecDense
}

// NewStandardScaler validates fitted parameters and builds a scaler.
// A zero scale (constant column at fit time) is treated as 1.
func NewStandardScaler(names []string, mean, scale []float64) (*StandardScaler, error) {
	schema, err := valueobject.NewFeatureSchema(names)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	if len(mean) != schema.Len() || len(scale) != schema.Len() {
		return nil, fmt.Errorf("scaler: expected %d means and scales, got %d and %d",
			schema.Len(), len(mean), len(scale))
	}

	m := make([]float64, len(mean))
	s := make([]float64, len(scale))
	for i := range mean {
		if !isFinite(mean[i]) || !isFinite(scale[i]) {
			return nil, fmt.Errorf("scaler: non-finite parameter for column %q", names[i])
		}
		if scale[i] < 0 {
			return nil, fmt.Errorf("scaler: negative scale for column %q", names[i])
		}
		m[i] = mean[i]
		s[i] = scale[i]
		if s[i] == 0 {
			s[i] = 1
		}
	}

	return &StandardScaler{
		schema: schema,
		mean:   mat.NewVecDense(len(m), m),
		scale:  mat.NewVecDense(len(s), s),
	}, nil
}

// FeatureNames returns the column order the scaler was fit on.
func (s *StandardScaler) FeatureNames() []string {
	return s.schema.Names()
}

// Schema returns the fitted feature schema.
func (s *StandardScaler) Schema() valueobject.FeatureSchema {
	return s.schema
}

// Transform standardizes x. It must have exactly one value per fitted column.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != s.schema.Len() {
		return nil, fmt.Errorf("scaler: expected %d features, got %d", s.schema.Len(), len(x))
	}
	for i, v := range x {
		if !isFinite(v) {
			return nil, fmt.Errorf("scaler: non-finite value for column %q", s.schema.Names()[i])
		}
	}

	in := mat.NewVecDense(len(x), append([]float64(nil), x...))
	out := mat.NewVecDense(len(x), nil)
	out.SubVec(in, s.mean)
	out.DivElemVec(out, s.scale)

	return out.RawVector().Data, nil
}

// Document returns the on-disk form of the scaler.
func (s *StandardScaler) Document() ScalerDocument {
	return ScalerDocument{
		FeatureNamesIn: s.schema.Names(),
		Mean:           vecData(s.mean),
		Scale:          vecData(s.scale),
	}
}

func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
