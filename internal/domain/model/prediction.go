package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

// Prediction is the immutable outcome of scoring a single feature vector.
type Prediction struct {
	scoredAt time.Time
	category valueobject.RiskCategory
	label    int
	id       uuid.UUID
}

// NewPrediction creates a prediction from a classifier label. Label 1 is
// High Risk and every other label is Low Risk; the raw label is kept.
func NewPrediction(label int) *Prediction {
	return &Prediction{
		id:       uuid.New(),
		label:    label,
		category: valueobject.RiskCategoryFromLabel(label),
		scoredAt: time.Now().UTC(),
	}
}

func (p *Prediction) ID() uuid.UUID { return p.id }
func (p *Prediction) Label() int { return p.label }
func (p *Prediction) Category() valueobject.RiskCategory { return p.category }
func (p *Prediction) ScoredAt() time.Time { return p.scoredAt }

// IsHighRisk reports whether the prediction is in the High Risk category.
func (p *Prediction) IsHighRisk() bool {
	return p.category.Equal(valueobject.RiskCategoryHigh)
}
