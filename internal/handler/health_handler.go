package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger checks a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service can reach its dependencies.
type HealthHandler struct {
	checks map[string]Pinger
	logger zerolog.Logger
}

// NewHealthHandler creates a health handler checking the named dependencies.
func NewHealthHandler(checks map[string]Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "healthy", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK

	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			resp.Checks[name] = "unavailable"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}
