package training_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/training"
)

func TestConfusionMatrix(t *testing.T) {
	cm, err := training.NewConfusionMatrix([]int{0, 0, 1, 1, 1}, []int{0, 1, 1, 1, 0})
	require.NoError(t, err)

	assert.Equal(t, 1, cm.TN())
	assert.Equal(t, 1, cm.FP())
	assert.Equal(t, 1, cm.FN())
	assert.Equal(t, 2, cm.TP())
	assert.Equal(t, [][]int{{1, 1}, {1, 2}}, cm.Rows())

	_, err = training.NewConfusionMatrix([]int{0}, []int{0, 1})
	assert.Error(t, err)
	_, err = training.NewConfusionMatrix([]int{2}, []int{0})
	assert.Error(t, err)
}

func TestClassificationReport(t *testing.T) {
	cm, err := training.NewConfusionMatrix([]int{0, 0, 1, 1, 1}, []int{0, 1, 1, 1, 0})
	require.NoError(t, err)

	r, err := training.NewClassificationReport(cm)
	require.NoError(t, err)

	low := r.Classes["0"]
	assert.InDelta(t, 0.5, low.Precision, 1e-9)
	assert.InDelta(t, 0.5, low.Recall, 1e-9)
	assert.InDelta(t, 0.5, low.F1, 1e-9)
	assert.Equal(t, 2, low.Support)

	high := r.Classes["1"]
	assert.InDelta(t, 2.0/3, high.Precision, 1e-9)
	assert.InDelta(t, 2.0/3, high.Recall, 1e-9)
	assert.Equal(t, 3, high.Support)

	assert.InDelta(t, 0.6, r.Accuracy, 1e-9)
	assert.InDelta(t, (0.5+2.0/3)/2, r.MacroAvg.Precision, 1e-9)
	assert.InDelta(t, 0.6, r.WeightedAvg.Precision, 1e-9)
	assert.Equal(t, 5, r.WeightedAvg.Support)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), "weighted avg")
	assert.Contains(t, buf.String(), "precision")
}

func TestClassificationReport_UndefinedRatiosAreZero(t *testing.T) {
	cm, err := training.NewConfusionMatrix([]int{0, 0}, []int{0, 0})
	require.NoError(t, err)

	r, err := training.NewClassificationReport(cm)
	require.NoError(t, err)
	assert.Zero(t, r.Classes["1"].Precision)
	assert.Zero(t, r.Classes["1"].F1)
	assert.InDelta(t, 1.0, r.Accuracy, 1e-9)

	_, err = training.NewClassificationReport(training.ConfusionMatrix{})
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	threshold := func(x []float64) (int, error) {
		if x[0] > 0 {
			return 1, nil
		}
		return 0, nil
	}

	eval, err := training.Evaluate(threshold, [][]float64{{-1}, {1}, {2}}, []int{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 1}, {0, 1}}, eval.ConfusionMatrix)

	failing := func([]float64) (int, error) { return 0, errors.New("boom") }
	_, err = training.Evaluate(failing, [][]float64{{1}}, []int{0})
	assert.Error(t, err)
}
