package http

import (
	"net/http"

	"github.com/go-chi/render"

	"nuclearfleet/pkg/contracts"
)

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Years   int    `json:"years"`
}

// HealthHandler reports viewer liveness
type HealthHandler struct {
	version string
	source  FleetSource
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, source FleetSource) *HealthHandler {
	return &HealthHandler{version: version, source: source}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Years:   len(h.source.Aggregates()),
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
