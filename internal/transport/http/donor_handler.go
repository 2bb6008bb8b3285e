package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "donorpulse/internal/errors"
	"donorpulse/internal/exporter"
	"donorpulse/internal/services"
)

// DonorHandler serves the stored donor set.
type DonorHandler struct {
	service      *services.DonorService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDonorHandler creates a donor handler.
func NewDonorHandler(service *services.DonorService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DonorHandler {
	return &DonorHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "donor_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the donor routes.
func (h *DonorHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Delete("/", h.Clear)
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Get)

	return r
}

// List handles GET /api/donors.
func (h *DonorHandler) List(w http.ResponseWriter, r *http.Request) {
	donors, err := h.service.Donors(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   donors,
		"count":  len(donors),
	})
}

// Get handles GET /api/donors/{id}.
func (h *DonorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Donor ID is required"))
		return
	}

	donor, err := h.service.Donor(r.Context(), id)
	if err != nil {
		if apierrors.IsType(err, apierrors.ErrTypeNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrDonorNotFound)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   donor,
	})
}

// Export handles GET /api/donors/export. It streams the donor set as
// CSV; ?detail=donations exports one row per donation instead of the
// per-donor summary.
func (h *DonorHandler) Export(w http.ResponseWriter, r *http.Request) {
	donors, err := h.service.Donors(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if r.URL.Query().Get("detail") == "donations" {
		w.Header().Set("Content-Disposition", `attachment; filename="donations.csv"`)
		err = exporter.WriteDonations(w, donors)
	} else {
		w.Header().Set("Content-Disposition", `attachment; filename="donors.csv"`)
		err = exporter.WriteDonorSummary(w, donors)
	}
	if err != nil {
		// Headers are already sent; log instead of writing a problem
		// document into the CSV body.
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

// Clear handles DELETE /api/donors. It removes all stored donor data
// and upload history.
func (h *DonorHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "donor data cleared")
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}
