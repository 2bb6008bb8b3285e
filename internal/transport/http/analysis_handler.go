package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "donorpulse/internal/errors"
	"donorpulse/internal/services"
)

// AnalysisHandler serves analytics snapshots and economic indicators.
type AnalysisHandler struct {
	service      *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.Analyze)
	r.Get("/enhanced", h.AnalyzeEnhanced)

	return r
}

// Analyze handles GET /api/analysis.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Analyze(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// AnalyzeEnhanced handles GET /api/analysis/enhanced.
func (h *AnalysisHandler) AnalyzeEnhanced(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.AnalyzeEnhanced(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// Indicators handles GET /api/indicators.
func (h *AnalysisHandler) Indicators(w http.ResponseWriter, r *http.Request) {
	indicators := h.service.Indicators(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   indicators,
		"count":  len(indicators),
	})
}
