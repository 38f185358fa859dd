package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/dto"
)

// maxBodyBytes bounds a /predict request body.
const maxBodyBytes = 1 << 20

// RootMessage is returned by GET /.
const RootMessage = "Credit Risk API is running! Visit /ui for testing."

// Predictor runs a prediction for decoded fields.
type Predictor interface {
	Execute(ctx context.Context, fields map[string]float64) (dto.PredictionResponse, error)
}

// PredictHandler serves the scoring API.
type PredictHandler struct {
	predictor Predictor
	logger    *slog.Logger
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(predictor Predictor, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		logger:    logger,
	}
}

// RegisterRoutes registers the API endpoints on the provided ServeMux.
func (h *PredictHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("POST /predict", h.Predict)
}

// Root handles liveness messages for humans.
func (h *PredictHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

// Predict decodes the credit input, scores it and returns the label and
// category. Malformed input is a 422; any scoring failure is a 500.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	fields, err := dto.DecodeCreditInput(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.logger.InfoContext(r.Context(), "rejected prediction input", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := h.predictor.Execute(r.Context(), fields)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "prediction failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeJSON marshals the value as JSON and writes it to the response.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response in the {"detail": ...} form.
func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"detail": msg})
}
