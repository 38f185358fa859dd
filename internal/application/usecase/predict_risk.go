package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/dto"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/port"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/service"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

const tracerName = "github.com/JWang8249/credit-risk-pipeline/internal/application/usecase"

// PredictionMetrics records prediction outcomes.
type PredictionMetrics interface {
	RecordPrediction(ctx context.Context, risk string, elapsed time.Duration)
	RecordScoringError(ctx context.Context)
}

// PredictRisk is the use case for scoring a credit application.
type PredictRisk struct {
	scorer  service.Scorer
	audit   port.AuditSink
	metrics PredictionMetrics
	logger  *slog.Logger
}

// NewPredictRisk creates a new PredictRisk use case. audit and metrics may
// be nil.
func NewPredictRisk(
	scorer service.Scorer,
	audit port.AuditSink,
	metrics PredictionMetrics,
	logger *slog.Logger,
) *PredictRisk {
	return &PredictRisk{
		scorer:  scorer,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute scores the fields and hands an audit record to the sink. Only a
// scoring failure is returned; audit failures are logged and dropped.
func (uc *PredictRisk) Execute(ctx context.Context, fields map[string]float64) (dto.PredictionResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "PredictRisk.Execute")
	defer span.End()

	start := time.Now()

	// 1. Score.
	prediction, err := uc.scorer.Score(fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		if uc.metrics != nil {
			uc.metrics.RecordScoringError(ctx)
		}
		return dto.PredictionResponse{}, fmt.Errorf("score: %w", err)
	}

	span.SetAttributes(
		attribute.String("prediction.id", prediction.ID().String()),
		attribute.Int("prediction.label", prediction.Label()),
	)
	if uc.metrics != nil {
		uc.metrics.RecordPrediction(ctx, prediction.Category().String(), time.Since(start))
	}

	// 2. Audit. The response is already decided at this point.
	uc.recordAudit(ctx, prediction, fields)

	return dto.FromPrediction(prediction), nil
}

func (uc *PredictRisk) recordAudit(ctx context.Context, p *model.Prediction, fields map[string]float64) {
	if uc.audit == nil {
		return
	}

	rec, err := model.NewAuditRecord(p, fields[valueobject.FeatureLimitBal], int(fields[valueobject.FeatureAge]))
	if err != nil {
		uc.logger.Warn("audit record rejected", "prediction_id", p.ID(), "error", err)
		return
	}

	if err := uc.audit.Record(ctx, rec); err != nil {
		uc.logger.Warn("audit write failed", "prediction_id", p.ID(), "error", err)
	}
}
