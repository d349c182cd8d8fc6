package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "nuclearfleet/internal/errors"
)

// FleetHandler serves the yearly aggregates as JSON
type FleetHandler struct {
	source FleetSource
	logger *slog.Logger
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(source FleetSource, logger *slog.Logger) *FleetHandler {
	return &FleetHandler{
		source: source,
		logger: logger.With(slog.String("component", "fleet_handler")),
	}
}

// Routes returns the aggregate routes
func (h *FleetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/aggregates", h.GetAggregates)
	r.Get("/aggregates/{year}", h.GetAggregate)
	r.Get("/summary", h.GetSummary)
	return r
}

// GetAggregates handles GET /api/aggregates
func (h *FleetHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.source.Aggregates())
}

// GetAggregate handles GET /api/aggregates/{year}
func (h *FleetHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		h.logger.DebugContext(r.Context(), "Invalid year parameter", slog.String("year", raw))
		_ = render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidParameterError("year", raw)))
		return
	}

	for _, a := range h.source.Aggregates() {
		if a.Year == year {
			render.JSON(w, r, a)
			return
		}
	}
	notFound := apierrors.NewNotFoundError("year "+raw).WithContext("year", year)
	_ = render.Render(w, r, apierrors.NewErrorResponse(apierrors.FromAppError(notFound)))
}

// GetSummary handles GET /api/summary
func (h *FleetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.source.Summary())
}
