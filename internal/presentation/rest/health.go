package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// ReadinessCheck reports whether a backing dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes over HTTP.
type HealthHandler struct {
	serviceName string
	checks      []ReadinessCheck
}

// NewHealthHandler creates a health check HTTP handler. Readiness fails when
// any check returns an error.
func NewHealthHandler(serviceName string, checks ...ReadinessCheck) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, checks: checks}
}

// RegisterRoutes attaches health-check routes to the given router.
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.liveness).Methods(http.MethodGet)
	router.HandleFunc("/readyz", h.readiness).Methods(http.MethodGet)
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.serviceName,
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	for _, check := range h.checks {
		if err := check(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": h.serviceName,
				"detail":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"service": h.serviceName,
	})
}
