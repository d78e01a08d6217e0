package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/fleetcheck/inspection-backend/internal/domain"
	"github.com/fleetcheck/inspection-backend/internal/service/image"
)

// maxUploadBytes bounds how much of a multipart body we read. Slightly
// above the service-level file limit so the limit error comes from
// validation, not a truncated read.
const maxUploadBytes = 11 << 20

type imageService interface {
	Upload(ctx context.Context, actorID string, in image.UploadInput) (*domain.InspectionImage, error)
	List(ctx context.Context, actorID string, inspectionID int64) ([]domain.InspectionImage, error)
	Delete(ctx context.Context, actorID string, imageID int64) error
}

// ImageHandler serves the inspection photo endpoints.
type ImageHandler struct {
	svc imageService
	log *slog.Logger
}

// NewImageHandler creates an ImageHandler.
func NewImageHandler(svc imageService, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{svc: svc, log: logger.With("handler", "image")}
}

// Upload handles POST /api/admin/inspections/{id}/images.
// Multipart form: "file" part plus an optional "image_type" field.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")

	img, err := h.svc.Upload(r.Context(), actorID(r), image.UploadInput{
		InspectionID: inspectionID,
		FileName:     header.Filename,
		MimeType:     mimeType,
		ImageType:    r.FormValue("image_type"),
		Data:         data,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Image uploaded successfully",
		"image":   toImageResponse(img),
	})
}

// List handles GET /api/admin/inspections/{id}/images.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := pathID(w, r)
	if !ok {
		return
	}

	images, err := h.svc.List(r.Context(), actorID(r), inspectionID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toImageResponses(images))
}

// Delete handles DELETE /api/admin/images/{id}.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	imageID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), actorID(r), imageID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Image deleted successfully",
	})
}
