package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

// creditLimitPlaces is the precision kept for credit limits in audit storage.
const creditLimitPlaces = 2

// AuditRecord is the reduced snapshot of a scoring event kept for offline
// analysis. Records are append-only.
type AuditRecord struct {
	createdAt    time.Time
	creditLimit  decimal.Decimal
	category     valueobject.RiskCategory
	age          int
	label        int
	predictionID uuid.UUID
}

// NewAuditRecord derives an audit record from a prediction and the two input
// fields that are retained.
func NewAuditRecord(p *Prediction, creditLimit float64, age int) (AuditRecord, error) {
	if p == nil {
		return AuditRecord{}, fmt.Errorf("prediction is required")
	}
	if math.IsNaN(creditLimit) || math.IsInf(creditLimit, 0) {
		return AuditRecord{}, fmt.Errorf("credit limit must be finite")
	}

	return AuditRecord{
		predictionID: p.ID(),
		creditLimit:  decimal.NewFromFloat(creditLimit).Round(creditLimitPlaces),
		age:          age,
		category:     p.Category(),
		label:        p.Label(),
		createdAt:    p.ScoredAt(),
	}, nil
}

func (r AuditRecord) PredictionID() uuid.UUID { return r.predictionID }

// CreditLimit returns the rounded credit limit.
func (r AuditRecord) CreditLimit() decimal.Decimal { return r.creditLimit }

func (r AuditRecord) Age() int { return r.age }
func (r AuditRecord) Category() valueobject.RiskCategory { return r.category }
func (r AuditRecord) Label() int { return r.label }
func (r AuditRecord) CreatedAt() time.Time { return r.createdAt }
