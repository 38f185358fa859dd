package rest

import (
	"log/slog"
	"net/http"
)

// RouterConfig collects everything the HTTP surface needs.
type RouterConfig struct {
	Predictor      Predictor
	Ready          func() bool
	MetricsHandler http.Handler
	ServiceName    string
	Logger         *slog.Logger
}

// NewRouter registers the API, form, health and metrics endpoints and wraps
// them in request ID, logging and recovery middleware.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	mux := http.NewServeMux()

	NewPredictHandler(cfg.Predictor, cfg.Logger).RegisterRoutes(mux)
	NewHealthHandler(cfg.ServiceName, cfg.Ready, cfg.Logger).RegisterRoutes(mux)

	form, err := NewFormHandler(cfg.Logger)
	if err != nil {
		return nil, err
	}
	form.RegisterRoutes(mux)

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	var handler http.Handler = mux
	handler = RecoveryMiddleware(cfg.Logger)(handler)
	handler = LoggingMiddleware(cfg.Logger)(handler)
	handler = RequestIDMiddleware(handler)
	return handler, nil
}
