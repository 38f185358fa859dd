package artifact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ModelTypeLogisticRegression identifies logistic regression model documents.
const ModelTypeLogisticRegression = "logistic_regression"

// ModelDocument is the on-disk form of a fitted classifier.
type ModelDocument struct {
	Type         string    `json:"type"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
}

// LogisticRegression is a fitted binary logistic regression model.
type LogisticRegression struct {
	coef      *mat.VecDense
	intercept float64
}

// NewLogisticRegression builds a model from fitted coefficients.
func NewLogisticRegression(coef []float64, intercept float64) (*LogisticRegression, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("logistic regression: no coefficients")
	}
	if !isFinite(intercept) {
		return nil, fmt.Errorf("logistic regression: non-finite intercept")
	}
	for i, c := range coef {
		if !isFinite(c) {
			return nil, fmt.Errorf("logistic regression: non-finite coefficient at %d", i)
		}
	}

	return &LogisticRegression{
		coef:      mat.NewVecDense(len(coef), append([]float64(nil), coef...)),
		intercept: intercept,
	}, nil
}

// NumFeatures returns the expected input dimension.
func (m *LogisticRegression) NumFeatures() int {
	return m.coef.Len()
}

// DecisionFunction returns coef·x + intercept.
func (m *LogisticRegression) DecisionFunction(x []float64) (float64, error) {
	if len(x) != m.coef.Len() {
		return 0, fmt.Errorf("logistic regression: expected %d features, got %d", m.coef.Len(), len(x))
	}
	return mat.Dot(m.coef, mat.NewVecDense(len(x), append([]float64(nil), x...))) + m.intercept, nil
}

// Probability returns P(label = 1 | x).
func (m *LogisticRegression) Probability(x []float64) (float64, error) {
	z, err := m.DecisionFunction(x)
	if err != nil {
		return 0, err
	}
	return Sigmoid(z), nil
}

// Predict returns 1 when the decision function is positive, 0 otherwise.
func (m *LogisticRegression) Predict(x []float64) (int, error) {
	z, err := m.DecisionFunction(x)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return 1, nil
	}
	return 0, nil
}

// Document returns the on-disk form of the model.
func (m *LogisticRegression) Document(featureNames []string) ModelDocument {
	return ModelDocument{
		Type:         ModelTypeLogisticRegression,
		FeatureNames: append([]string(nil), featureNames...),
		Coef:         vecData(m.coef),
		Intercept:    m.intercept,
	}
}

// Sigmoid is the logistic function.
func Sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
