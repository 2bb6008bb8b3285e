package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "donorpulse/internal/errors"
	"donorpulse/internal/services"
)

// UploadHandler handles donation file uploads and the upload history.
type UploadHandler struct {
	service        *services.DonorService
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewUploadHandler creates an upload handler. maxUploadBytes bounds the
// accepted request body size.
func NewUploadHandler(service *services.DonorService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "upload_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the upload routes.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/history", h.History)

	return r
}

// Upload handles POST /api/uploads. The donation file is expected as the
// multipart form field "file".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
				"Uploaded file exceeds the size limit",
			))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Request is not valid multipart form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Multipart field 'file' is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(ctx, "processing upload",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	result, err := h.service.Upload(ctx, file, header.Filename)
	if err != nil {
		h.logger.ErrorContext(ctx, "upload failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// History handles GET /api/uploads/history.
func (h *UploadHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.UploadHistory(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   history,
		"count":  len(history),
	})
}
