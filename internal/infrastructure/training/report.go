package training

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConfusionMatrix holds counts in row = actual, column = predicted order:
// [[tn, fp], [fn, tp]].
type ConfusionMatrix [2][2]int

// NewConfusionMatrix tallies actual against predicted labels.
func NewConfusionMatrix(actual, predicted []int) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	if len(actual) != len(predicted) {
		return cm, fmt.Errorf("confusion matrix: %d actual vs %d predicted labels", len(actual), len(predicted))
	}
	for i := range actual {
		a, p := actual[i], predicted[i]
		if a < 0 || a > 1 || p < 0 || p > 1 {
			return cm, fmt.Errorf("confusion matrix: labels must be 0 or 1 at row %d", i)
		}
		cm[a][p]++
	}
	return cm, nil
}

func (c ConfusionMatrix) TN() int { return c[0][0] }
func (c ConfusionMatrix) FP() int { return c[0][1] }
func (c ConfusionMatrix) FN() int { return c[1][0] }
func (c ConfusionMatrix) TP() int { return c[1][1] }

// Total returns the number of tallied rows.
func (c ConfusionMatrix) Total() int {
	return c[0][0] + c[0][1] + c[1][0] + c[1][1]
}

// Rows returns the matrix as nested slices for serialization.
func (c ConfusionMatrix) Rows() [][]int {
	return [][]int{{c[0][0], c[0][1]}, {c[1][0], c[1][1]}}
}

// ClassMetrics are the per-class scores of a classification report.
type ClassMetrics struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1_score" yaml:"f1_score"`
	Support   int     `json:"support" yaml:"support"`
}

// ClassificationReport summarizes binary classifier quality.
type ClassificationReport struct {
	Classes     map[string]ClassMetrics `json:"classes" yaml:"classes"`
	Accuracy    float64                 `json:"accuracy" yaml:"accuracy"`
	MacroAvg    ClassMetrics            `json:"macro_avg" yaml:"macro_avg"`
	WeightedAvg ClassMetrics            `json:"weighted_avg" yaml:"weighted_avg"`
}

// Evaluation is the output of the evaluate command.
type Evaluation struct {
	ConfusionMatrix [][]int              `json:"confusion_matrix" yaml:"confusion_matrix"`
	Report          ClassificationReport `json:"classification_report" yaml:"classification_report"`
}

// NewClassificationReport derives precision, recall and F1 for both classes.
// Undefined ratios are reported as 0.
func NewClassificationReport(cm ConfusionMatrix) (ClassificationReport, error) {
	total := cm.Total()
	if total == 0 {
		return ClassificationReport{}, errors.New("classification report: no rows")
	}

	classes := make(map[string]ClassMetrics, 2)
	var macro, weighted ClassMetrics
	for label := 0; label <= 1; label++ {
		other := 1 - label
		tp := cm[label][label]
		fp := cm[other][label]
		fn := cm[label][other]

		m := ClassMetrics{
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		classes[fmt.Sprint(label)] = m

		w := float64(m.Support) / float64(total)
		macro.Precision += m.Precision / 2
		macro.Recall += m.Recall / 2
		macro.F1 += m.F1 / 2
		weighted.Precision += m.Precision * w
		weighted.Recall += m.Recall * w
		weighted.F1 += m.F1 * w
	}
	macro.Support = total
	weighted.Support = total

	return ClassificationReport{
		Classes:     classes,
		Accuracy:    ratio(cm.TN()+cm.TP(), total),
		MacroAvg:    macro,
		WeightedAvg: weighted,
	}, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// WriteText renders the report as a plain text table.
func (r ClassificationReport) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%14s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, label := range []string{"0", "1"} {
		m := r.Classes[label]
		fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", label, m.Precision, m.Recall, m.F1, m.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%14s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, r.MacroAvg.Support)
	fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", "macro avg",
		r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", "weighted avg",
		r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)
	_, err := io.WriteString(w, b.String())
	return err
}

// Evaluate runs a classifier over already scaled rows and builds an Evaluation.
func Evaluate(predict func([]float64) (int, error), x [][]float64, y []int) (*Evaluation, error) {
	predicted := make([]int, len(x))
	for i, row := range x {
		p, err := predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		predicted[i] = p
	}
	cm, err := NewConfusionMatrix(y, predicted)
	if err != nil {
		return nil, err
	}
	report, err := NewClassificationReport(cm)
	if err != nil {
		return nil, err
	}
	return &Evaluation{ConfusionMatrix: cm.Rows(), Report: report}, nil
}
