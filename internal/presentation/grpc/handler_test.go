package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/dto"
)

// --- Mock implementations ---

type mockPredictor struct {
	seen        map[string]float64
	executeFunc func(ctx context.Context, fields map[string]float64) (dto.PredictionResponse, error)
}

func (m *mockPredictor) Execute(ctx context.Context, fields map[string]float64) (dto.PredictionResponse, error) {
	m.seen = fields
	if m.executeFunc != nil {
		return m.executeFunc(ctx, fields)
	}
	return dto.PredictionResponse{Prediction: 1, Risk: "High Risk"}, nil
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func rawFields(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got: %v", err)
	assert.Equal(t, code, st.Code())
}

// --- Tests ---

func TestPredict(t *testing.T) {
	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		h := NewRiskServiceHandler(&mockPredictor{}, testLogger())
		_, err := h.Predict(context.Background(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("missing fields returns InvalidArgument", func(t *testing.T) {
		h := NewRiskServiceHandler(&mockPredictor{}, testLogger())
		_, err := h.Predict(context.Background(), &dto.PredictRequest{})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "fields are required")
	})

	t.Run("non-numeric string returns InvalidArgument", func(t *testing.T) {
		p := &mockPredictor{}
		h := NewRiskServiceHandler(p, testLogger())
		_, err := h.Predict(context.Background(), &dto.PredictRequest{
			Fields: rawFields(t, `{"PAY_0": "two"}`),
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "PAY_0")
		assert.Nil(t, p.seen)
	})

	t.Run("fractional integer field returns InvalidArgument", func(t *testing.T) {
		h := NewRiskServiceHandler(&mockPredictor{}, testLogger())
		_, err := h.Predict(context.Background(), &dto.PredictRequest{
			Fields: rawFields(t, `{"AGE": 30.5}`),
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("scoring failure returns Internal", func(t *testing.T) {
		p := &mockPredictor{
			executeFunc: func(context.Context, map[string]float64) (dto.PredictionResponse, error) {
				return dto.PredictionResponse{}, fmt.Errorf("score: %w", fmt.Errorf("artifacts not loaded"))
			},
		}
		h := NewRiskServiceHandler(p, testLogger())
		_, err := h.Predict(context.Background(), &dto.PredictRequest{
			Fields: rawFields(t, `{"PAY_0": 2}`),
		})
		requireGRPCCode(t, err, codes.Internal)
		assert.Contains(t, err.Error(), "artifacts not loaded")
	})

	t.Run("success passes parsed fields through", func(t *testing.T) {
		p := &mockPredictor{}
		h := NewRiskServiceHandler(p, testLogger())
		resp, err := h.Predict(context.Background(), &dto.PredictRequest{
			Fields: rawFields(t, `{"PAY_0": 2, "LIMIT_BAL": 50000.5, "unknown": "x", "AGE": null}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Prediction)
		assert.Equal(t, "High Risk", resp.Risk)
		assert.Equal(t, map[string]float64{"PAY_0": 2, "LIMIT_BAL": 50000.5}, p.seen)
	})

	t.Run("numeric string is coerced", func(t *testing.T) {
		p := &mockPredictor{}
		h := NewRiskServiceHandler(p, testLogger())
		_, err := h.Predict(context.Background(), &dto.PredictRequest{
			Fields: rawFields(t, `{"PAY_0": "2", "LIMIT_BAL": "20000"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"PAY_0": 2, "LIMIT_BAL": 20000}, p.seen)
	})

	t.Run("empty fields object is accepted", func(t *testing.T) {
		p := &mockPredictor{}
		h := NewRiskServiceHandler(p, testLogger())
		_, err := h.Predict(context.Background(), &dto.PredictRequest{
			Fields: map[string]json.RawMessage{},
		})
		require.NoError(t, err)
		assert.Empty(t, p.seen)
	})
}
