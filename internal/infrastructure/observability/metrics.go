package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterName is the instrumentation scope of the service metrics.
const MeterName = "github.com/JWang8249/credit-risk-pipeline"

// InitMetrics initializes the Prometheus metrics exporter on its own
// registry. Returns the MeterProvider and an HTTP handler for /metrics.
func InitMetrics() (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return provider, handler, nil
}

// Metrics holds the service instruments.
type Metrics struct {
	predictions   metric.Int64Counter
	scoringErrors metric.Int64Counter
	latency       metric.Float64Histogram
	auditFailures metric.Int64Counter
	auditDropped  metric.Int64Counter
}

// NewMetrics creates the service instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	predictions, err := meter.Int64Counter("credit_risk_predictions_total",
		metric.WithDescription("Predictions served, by risk category."))
	if err != nil {
		return nil, err
	}
	scoringErrors, err := meter.Int64Counter("credit_risk_scoring_errors_total",
		metric.WithDescription("Requests that failed during scoring."))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("credit_risk_prediction_duration_seconds",
		metric.WithDescription("Time spent scoring a request."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	auditFailures, err := meter.Int64Counter("audit_failures_total",
		metric.WithDescription("Audit writes that failed, by sink."))
	if err != nil {
		return nil, err
	}
	auditDropped, err := meter.Int64Counter("audit_dropped_total",
		metric.WithDescription("Audit records dropped because too many writes were in flight."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		predictions:   predictions,
		scoringErrors: scoringErrors,
		latency:       latency,
		auditFailures: auditFailures,
		auditDropped:  auditDropped,
	}, nil
}

func (m *Metrics) RecordPrediction(ctx context.Context, risk string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("risk", risk))
	m.predictions.Add(ctx, 1, attrs)
	m.latency.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) RecordScoringError(ctx context.Context) {
	m.scoringErrors.Add(ctx, 1)
}

func (m *Metrics) RecordAuditFailure(ctx context.Context, sink string) {
	m.auditFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("sink", sink)))
}

func (m *Metrics) RecordAuditDropped(ctx context.Context) {
	m.auditDropped.Add(ctx, 1)
}
