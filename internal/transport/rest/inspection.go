package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fleetcheck/inspection-backend/internal/domain"
	"github.com/fleetcheck/inspection-backend/internal/service/inspection"
	"github.com/fleetcheck/inspection-backend/pkg/ctxutil"
)

// inspectionService defines the minimal interface needed by InspectionHandler.
type inspectionService interface {
	List(ctx context.Context, actorID string) ([]domain.InspectionRecord, error)
	Get(ctx context.Context, id int64, actorID string) (*domain.InspectionRecord, error)
	Update(ctx context.Context, id int64, actorID string, in inspection.UpdateInput) (*domain.InspectionRecord, error)
	Delete(ctx context.Context, id int64, actorID string) error
}

// InspectionHandler serves the admin inspection endpoints.
type InspectionHandler struct {
	svc inspectionService
	log *slog.Logger
}

// NewInspectionHandler creates an InspectionHandler.
func NewInspectionHandler(svc inspectionService, logger *slog.Logger) *InspectionHandler {
	return &InspectionHandler{svc: svc, log: logger.With("handler", "inspection")}
}

// List handles GET /api/admin/inspections.
func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context(), actorID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toInspectionResponses(records))
}

// Get handles GET /api/admin/inspections/{id}.
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), id, actorID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toInspectionResponse(rec))
}

// Update handles PUT /api/admin/inspections/{id}.
func (h *InspectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in inspection.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Update(r.Context(), id, actorID(r), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Inspection updated successfully",
		"inspection": toInspectionResponse(rec),
	})
}

// Delete handles DELETE /api/admin/inspections/{id}.
func (h *InspectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id, actorID(r)); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Inspection deleted successfully",
	})
}

// actorID pulls the pre-verified caller identity from the context. Empty
// means anonymous; the service layer rejects it.
func actorID(r *http.Request) string {
	id, _ := ctxutil.ActorIDFromCtx(r.Context())
	return id
}

// pathID parses the {id} path segment. Writes a 400 and returns false on
// garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
