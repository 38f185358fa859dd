package training

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/artifact"
)

// FitStandardScaler computes per-column population mean and standard
// deviation, matching the usual StandardScaler definition.
func FitStandardScaler(features []string, x [][]float64) (*artifact.StandardScaler, error) {
	if len(x) == 0 {
		return nil, errors.New("fit scaler: no rows")
	}
	n := float64(len(x))
	mean := make([]float64, len(features))
	scale := make([]float64, len(features))
	col := make([]float64, len(x))

	for j := range features {
		for i, row := range x {
			if len(row) != len(features) {
				return nil, fmt.Errorf("fit scaler: row %d has %d values, want %d", i, len(row), len(features))
			}
			col[i] = row[j]
		}
		m, v := stat.MeanVariance(col, nil)
		if len(x) == 1 {
			v = 0
		} else {
			v *= (n - 1) / n
		}
		mean[j] = m
		scale[j] = math.Sqrt(v)
	}

	return artifact.NewStandardScaler(features, mean, scale)
}

// TransformAll applies a scaler to every row.
func TransformAll(s *artifact.StandardScaler, x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

// LogisticConfig controls logistic regression fitting.
type LogisticConfig struct {
	// C is the inverse L2 regularization strength.
	C            float64
	LearningRate float64
	Tolerance    float64
	MaxIter      int
}

// DefaultLogisticConfig mirrors the defaults of the original training script.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{
		C:            1.0,
		LearningRate: 0.5,
		Tolerance:    1e-6,
		MaxIter:      1000,
	}
}

// FitResult describes a finished fit.
type FitResult struct {
	Model      *artifact.LogisticRegression
	Iterations int
	Converged  bool
	Loss       float64
}

// FitLogisticRegression minimizes the L2-regularized log loss with full-batch
// gradient descent. The intercept is not regularized. Rows are expected to be
// scaled already.
func FitLogisticRegression(x [][]float64, y []int, cfg LogisticConfig) (*FitResult, error) {
	n := len(x)
	if n == 0 {
		return nil, errors.New("fit logistic regression: no rows")
	}
	if len(y) != n {
		return nil, fmt.Errorf("fit logistic regression: %d rows but %d targets", n, len(y))
	}
	if cfg.C <= 0 || cfg.LearningRate <= 0 || cfg.MaxIter <= 0 {
		return nil, fmt.Errorf("fit logistic regression: invalid config %+v", cfg)
	}

	d := len(x[0])
	data := make([]float64, 0, n*d)
	for i, row := range x {
		if len(row) != d {
			return nil, fmt.Errorf("fit logistic regression: row %d has %d values, want %d", i, len(row), d)
		}
		data = append(data, row...)
	}
	X := mat.NewDense(n, d, data)

	target := make([]float64, n)
	for i, v := range y {
		target[i] = float64(v)
	}

	w := mat.NewVecDense(d, nil)
	var b float64
	z := mat.NewVecDense(n, nil)
	residual := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)
	lambda := 1 / (cfg.C * float64(n))

	result := &FitResult{}
	for iter := 1; iter <= cfg.MaxIter; iter++ {
		z.MulVec(X, w)
		var gradB float64
		for i := 0; i < n; i++ {
			r := artifact.Sigmoid(z.AtVec(i)+b) - target[i]
			residual.SetVec(i, r)
			gradB += r
		}
		gradB /= float64(n)

		grad.MulVec(X.T(), residual)
		grad.ScaleVec(1/float64(n), grad)
		grad.AddScaledVec(grad, lambda, w)

		w.AddScaledVec(w, -cfg.LearningRate, grad)
		b -= cfg.LearningRate * gradB

		result.Iterations = iter
		norm := math.Hypot(floats.Norm(grad.RawVector().Data, 2), gradB)
		if norm < cfg.Tolerance {
			result.Converged = true
			break
		}
	}

	coef := make([]float64, d)
	for j := range coef {
		coef[j] = w.AtVec(j)
	}
	model, err := artifact.NewLogisticRegression(coef, b)
	if err != nil {
		return nil, err
	}
	result.Model = model
	result.Loss = logLoss(model, x, y)
	return result, nil
}

func logLoss(m *artifact.LogisticRegression, x [][]float64, y []int) float64 {
	const eps = 1e-15
	var sum float64
	for i, row := range x {
		p, err := m.Probability(row)
		if err != nil {
			return math.NaN()
		}
		p = math.Min(math.Max(p, eps), 1-eps)
		if y[i] == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(x))
}
