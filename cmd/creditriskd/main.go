package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/usecase"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/service"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/artifact"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/audit"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/config"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/kafka"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/observability"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/postgres"
	grpcpresentation "github.com/JWang8249/credit-risk-pipeline/internal/presentation/grpc"
	"github.com/JWang8249/credit-risk-pipeline/internal/presentation/rest"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("creditriskd exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting creditriskd",
		"version", version,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	metrics, err := observability.NewMetrics(meterProvider.Meter(observability.MeterName))
	if err != nil {
		return fmt.Errorf("create instruments: %w", err)
	}

	// Load artifacts. The service does not start without them.
	store := artifact.NewStore(cfg.Artifacts.ScalerPath, cfg.Artifacts.ModelPath, logger)
	if err := store.Reload(); err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	// Wire audit sinks.
	var sinks []audit.Sink
	if cfg.Audit.Enabled {
		sinks = append(sinks, postgres.NewAuditSink(cfg.Database.DSN(), postgres.Connect))
		logger.Info("postgres audit sink enabled", "host", cfg.Database.Host, "database", cfg.Database.Database)
	}

	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducer(kafka.FromSettings(cfg.Kafka))
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		sinks = append(sinks, kafka.NewPublisher(producer, cfg.Kafka.Topic, logger))
		logger.Info("kafka event sink enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	dispatcher := audit.NewDispatcher(sinks, cfg.Audit.Timeout, cfg.Audit.MaxInFlight, metrics, logger)

	// Wire domain services and use cases.
	scorer := service.NewRiskScorer(store, service.NewFeatureAligner())
	predictRisk := usecase.NewPredictRisk(scorer, dispatcher, metrics, logger)

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(predictRisk, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		Reflection:  cfg.GRPCReflection,
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}
	grpcServer.SetServing(store.Loaded())

	// HTTP server: API, form, health and metrics.
	router, err := rest.NewRouter(rest.RouterConfig{
		Predictor:      predictRisk,
		Ready:          store.Loaded,
		MetricsHandler: metricsHandler,
		ServiceName:    cfg.ServiceName,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      otelhttp.NewHandler(router, cfg.ServiceName),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("creditriskd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	var serveErr error
wait:
	for {
		select {
		case <-hup:
			// A failed reload keeps the previous artifacts in service.
			if err := store.Reload(); err != nil {
				logger.Error("artifact reload failed, keeping current artifacts", "error", err)
				continue
			}
			logger.Info("artifacts reloaded")
		case <-ctx.Done():
			logger.Info("shutdown signal received")
			break wait
		case serveErr = <-errCh:
			logger.Error("server error", "error", serveErr)
			break wait
		}
	}

	// Graceful shutdown.
	logger.Info("shutting down creditriskd")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("audit drain incomplete", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", "error", err)
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown error", "error", err)
	}

	logger.Info("creditriskd stopped")
	return serveErr
}
