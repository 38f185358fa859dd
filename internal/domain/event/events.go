package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
)

// EventTypePredictionCompleted is emitted after a prediction has been returned to the caller.
const EventTypePredictionCompleted = "credit_risk.prediction.completed"

// PredictionCompleted carries the audit snapshot of a finished prediction.
type PredictionCompleted struct {
	OccurredAt   time.Time `json:"occurred_at"`
	EventID      uuid.UUID `json:"event_id"`
	PredictionID uuid.UUID `json:"prediction_id"`
	CreditLimit  string    `json:"credit_limit"`
	Risk         string    `json:"risk"`
	Prediction   int       `json:"prediction"`
	Age          int       `json:"age"`
}

// NewPredictionCompleted builds the event for an audit record.
func NewPredictionCompleted(rec model.AuditRecord) PredictionCompleted {
	return PredictionCompleted{
		EventID:      uuid.New(),
		PredictionID: rec.PredictionID(),
		Prediction:   rec.Label(),
		Risk:         rec.Category().String(),
		CreditLimit:  rec.CreditLimit().StringFixed(2),
		Age:          rec.Age(),
		OccurredAt:   rec.CreatedAt(),
	}
}

// EventType returns the event type identifier.
func (e PredictionCompleted) EventType() string {
	return EventTypePredictionCompleted
}

// AggregateID returns the prediction ID as the aggregate identifier.
func (e PredictionCompleted) AggregateID() uuid.UUID {
	return e.PredictionID
}
