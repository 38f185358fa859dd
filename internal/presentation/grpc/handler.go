package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/dto"
)

// Predictor runs a prediction for decoded fields.
type Predictor interface {
	Execute(ctx context.Context, fields map[string]float64) (dto.PredictionResponse, error)
}

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	predictor Predictor
	logger    *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(predictor Predictor, logger *slog.Logger) *RiskServiceHandler {
	return &RiskServiceHandler{
		predictor: predictor,
		logger:    logger,
	}
}

// Predict scores the fields carried in the request. Input errors map to
// InvalidArgument; anything else raised while scoring is Internal.
func (h *RiskServiceHandler) Predict(ctx context.Context, req *dto.PredictRequest) (*dto.PredictionResponse, error) {
	if req == nil || req.Fields == nil {
		return nil, status.Error(codes.InvalidArgument, "fields are required")
	}

	fields, err := dto.ParseCreditFields(req.Fields)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := h.predictor.Execute(ctx, fields)
	if err != nil {
		if errors.Is(err, dto.ErrInvalidInput) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		h.logger.ErrorContext(ctx, "prediction failed", "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &resp, nil
}
