package dto_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/dto"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

func TestDecodeCreditInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string]float64
		wantErr bool
	}{
		{
			name: "partial fields",
			body: `{"LIMIT_BAL": 20000, "SEX": 1, "EDUCATION": 2, "MARRIAGE": 1, "AGE": 30, "PAY_0": 0}`,
			want: map[string]float64{"LIMIT_BAL": 20000, "SEX": 1, "EDUCATION": 2, "MARRIAGE": 1, "AGE": 30, "PAY_0": 0},
		},
		{
			name: "empty object",
			body: `{}`,
			want: map[string]float64{},
		},
		{
			name: "unknown keys ignored",
			body: `{"LIMIT_BAL": 1.5, "PAY_1": 3, "name": "x"}`,
			want: map[string]float64{"LIMIT_BAL": 1.5},
		},
		{
			name: "null treated as absent",
			body: `{"AGE": null, "BILL_AMT1": -10.25}`,
			want: map[string]float64{"BILL_AMT1": -10.25},
		},
		{
			name: "whole float accepted for integer field",
			body: `{"AGE": 30.0}`,
			want: map[string]float64{"AGE": 30},
		},
		{
			name: "numeric strings coerced",
			body: `{"LIMIT_BAL": "20000", "AGE": "30", "BILL_AMT2": " -1.5e2 "}`,
			want: map[string]float64{"LIMIT_BAL": 20000, "AGE": 30, "BILL_AMT2": -150},
		},
		{name: "string where number expected", body: `{"LIMIT_BAL": "abc"}`, wantErr: true},
		{name: "empty string", body: `{"LIMIT_BAL": ""}`, wantErr: true},
		{name: "non-finite string", body: `{"LIMIT_BAL": "NaN"}`, wantErr: true},
		{name: "fractional integer string", body: `{"AGE": "30.5"}`, wantErr: true},
		{name: "trailing garbage", body: `{"AGE": 30} trailing-garbage`, wantErr: true},
		{name: "second object", body: `{"AGE": 30}{"AGE": 99}`, wantErr: true},
		{name: "fractional integer field", body: `{"AGE": 30.5}`, wantErr: true},
		{name: "boolean value", body: `{"SEX": true}`, wantErr: true},
		{name: "array body", body: `[1, 2]`, wantErr: true},
		{name: "null body", body: `null`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{
			name: "trailing whitespace",
			body: "{\"AGE\": 30}\n\t ",
			want: map[string]float64{"AGE": 30},
		},
		{name: "broken json", body: `{"AGE": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dto.DecodeCreditInput(strings.NewReader(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, dto.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCreditFields_ErrorNamesField(t *testing.T) {
	_, err := dto.ParseCreditFields(map[string]json.RawMessage{"PAY_AMT3": json.RawMessage(`"x"`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAY_AMT3")
}

func TestParseCreditFields_AllDatasetColumns(t *testing.T) {
	raw := map[string]json.RawMessage{}
	for _, name := range valueobject.DefaultFeatureSchema().Names() {
		raw[name] = json.RawMessage(`1`)
	}
	raw["PAY_1"] = json.RawMessage(`1`)

	got, err := dto.ParseCreditFields(raw)
	require.NoError(t, err)
	assert.Len(t, got, 23)
	assert.NotContains(t, got, "PAY_1")
}

func TestFromPrediction(t *testing.T) {
	p := model.NewPrediction(1)

	resp := dto.FromPrediction(p)
	assert.Equal(t, dto.PredictionResponse{Prediction: 1, Risk: "High Risk"}, resp)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"prediction": 1, "risk": "High Risk"}`, string(data))
}
