package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler provides HTTP health check endpoints for the credit risk service.
type HealthHandler struct {
	logger    *slog.Logger
	startTime time.Time
	service   string
	ready     func() bool
}

// NewHealthHandler creates a new health check handler. ready reports whether
// the scoring artifacts are loaded.
func NewHealthHandler(service string, ready func() bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		service:   service,
		ready:     ready,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz handles readiness probe requests. The audit store is not checked:
// the service scores correctly without it.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	resp := ReadinessResponse{
		Status:  "ready",
		Service: h.service,
		Checks:  map[string]string{"artifacts": "ok"},
	}
	code := http.StatusOK
	if !h.ready() {
		resp.Status = "not ready"
		resp.Checks["artifacts"] = "not loaded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
