package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/dto"
	"github.com/JWang8249/credit-risk-pipeline/internal/presentation/rest"
)

type fakePredictor struct {
	seen        map[string]float64
	executeFunc func(ctx context.Context, fields map[string]float64) (dto.PredictionResponse, error)
}

func (f *fakePredictor) Execute(ctx context.Context, fields map[string]float64) (dto.PredictionResponse, error) {
	f.seen = fields
	if f.executeFunc != nil {
		return f.executeFunc(ctx, fields)
	}
	return dto.PredictionResponse{Prediction: 0, Risk: "Low Risk"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRouter(t *testing.T, p rest.Predictor, ready bool) http.Handler {
	t.Helper()
	h, err := rest.NewRouter(rest.RouterConfig{
		Predictor:   p,
		Ready:       func() bool { return ready },
		ServiceName: "creditriskd",
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("# metrics\n"))
		}),
		Logger: testLogger(),
	})
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRoot(t *testing.T) {
	h := newTestRouter(t, &fakePredictor{}, true)

	rec := do(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, rest.RootMessage, decode(t, rec)["message"])

	rec = do(h, http.MethodGet, "/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPredict_Success(t *testing.T) {
	p := &fakePredictor{executeFunc: func(context.Context, map[string]float64) (dto.PredictionResponse, error) {
		return dto.PredictionResponse{Prediction: 1, Risk: "High Risk"}, nil
	}}
	h := newTestRouter(t, p, true)

	rec := do(h, http.MethodPost, "/predict", `{"LIMIT_BAL": 20000, "SEX": 1, "AGE": 30, "PAY_0": 0, "extra": "ignored"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"prediction": 1, "risk": "High Risk"}`, rec.Body.String())
	assert.Equal(t, map[string]float64{"LIMIT_BAL": 20000, "SEX": 1, "AGE": 30, "PAY_0": 0}, p.seen)
}

func TestPredict_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "string where number expected", body: `{"LIMIT_BAL": "abc"}`},
		{name: "fractional integer", body: `{"AGE": 30.5}`},
		{name: "not an object", body: `[1,2,3]`},
		{name: "empty body", body: ``},
		{name: "broken json", body: `{"AGE":`},
		{name: "trailing garbage", body: `{"AGE": 30} trailing-garbage`},
		{name: "two objects", body: `{"AGE": 30}{"AGE": 99}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePredictor{}
			h := newTestRouter(t, p, true)

			rec := do(h, http.MethodPost, "/predict", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			body := decode(t, rec)
			assert.NotEmpty(t, body["detail"])
			assert.NotContains(t, body, "prediction")
			assert.Nil(t, p.seen, "predictor is not called")
		})
	}
}

func TestPredict_NumericStringsCoerced(t *testing.T) {
	p := &fakePredictor{}
	h := newTestRouter(t, p, true)

	rec := do(h, http.MethodPost, "/predict", `{"LIMIT_BAL": "20000", "AGE": "30"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]float64{"LIMIT_BAL": 20000, "AGE": 30}, p.seen)
}

func TestPredict_BodyTooLarge(t *testing.T) {
	h := newTestRouter(t, &fakePredictor{}, true)

	body := `{"LIMIT_BAL": 1, "pad": "` + strings.Repeat("x", 2<<20) + `"}`
	rec := do(h, http.MethodPost, "/predict", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPredict_ScoringFailure(t *testing.T) {
	p := &fakePredictor{executeFunc: func(context.Context, map[string]float64) (dto.PredictionResponse, error) {
		return dto.PredictionResponse{}, errors.New("score: load artifacts: artifacts not loaded")
	}}
	h := newTestRouter(t, p, true)

	rec := do(h, http.MethodPost, "/predict", `{}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["detail"], "artifacts not loaded")
	assert.NotContains(t, body, "prediction")
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, &fakePredictor{}, true)

	rec := do(h, http.MethodGet, "/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, &fakePredictor{}, true)

	rec := do(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])

	rec = do(h, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyz_NotLoaded(t *testing.T) {
	h := newTestRouter(t, &fakePredictor{}, false)

	rec := do(h, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not loaded", body["checks"].(map[string]any)["artifacts"])
}

func TestMetricsRoute(t *testing.T) {
	h := newTestRouter(t, &fakePredictor{}, true)

	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}

func TestForm(t *testing.T) {
	h := newTestRouter(t, &fakePredictor{}, true)

	rec := do(h, http.MethodGet, "/ui", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	page := rec.Body.String()
	assert.Contains(t, page, "Credit Risk Prediction")
	for _, field := range []string{"LIMIT_BAL", "SEX", "EDUCATION", "MARRIAGE", "AGE", "PAY_0", "BILL_AMT1", "PAY_AMT2"} {
		assert.Contains(t, page, `name="`+field+`"`)
	}
	assert.Contains(t, page, `fetch("/predict"`)
}
