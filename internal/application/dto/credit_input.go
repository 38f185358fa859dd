package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

// ErrInvalidInput marks a request body that cannot be turned into features.
var ErrInvalidInput = errors.New("invalid input")

var recognized = valueobject.DefaultFeatureSchema()

// integerFields are the count and repayment-status fields. The remaining
// recognized fields are monetary amounts.
var integerFields = map[string]bool{
	"SEX": true, "EDUCATION": true, "MARRIAGE": true, "AGE": true,
	"PAY_0": true, "PAY_2": true, "PAY_3": true, "PAY_4": true, "PAY_5": true, "PAY_6": true,
}

// PredictRequest is the body of a gRPC Predict call.
type PredictRequest struct {
	Fields map[string]json.RawMessage `json:"fields"`
}

// PredictionResponse is the output DTO of a prediction.
type PredictionResponse struct {
	Risk       string `json:"risk"`
	Prediction int    `json:"prediction"`
}

// FromPrediction maps a domain prediction to the response DTO.
func FromPrediction(p *model.Prediction) PredictionResponse {
	return PredictionResponse{
		Prediction: p.Label(),
		Risk:       p.Category().String(),
	}
}

// DecodeCreditInput reads a JSON object body into feature values. See
// ParseCreditFields for the field rules.
func DecodeCreditInput(r io.Reader) (map[string]float64, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: body must be a JSON object: %w", ErrInvalidInput, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidInput)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidInput)
	}
	return ParseCreditFields(raw)
}

// ParseCreditFields converts recognized fields to numbers. Null values are
// treated as absent and unknown keys are ignored. Strings holding a number
// are coerced. Integer fields must hold whole numbers. Absent fields are left
// out; the aligner zero-fills them.
func ParseCreditFields(raw map[string]json.RawMessage) (map[string]float64, error) {
	fields := make(map[string]float64, len(raw))
	for name, value := range raw {
		if !recognized.Contains(name) {
			continue
		}
		isInt := integerFields[name]
		if string(value) == "null" {
			continue
		}

		v, ok := numericValue(value)
		if !ok {
			return nil, fmt.Errorf("%w: field %s must be a number", ErrInvalidInput, name)
		}
		if isInt && v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: field %s must be an integer", ErrInvalidInput, name)
		}
		fields[name] = v
	}
	return fields, nil
}

func numericValue(value json.RawMessage) (float64, bool) {
	var v float64
	if err := json.Unmarshal(value, &v); err == nil {
		return v, true
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
