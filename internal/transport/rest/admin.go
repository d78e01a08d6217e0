package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

type statusService interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}

type userService interface {
	List(ctx context.Context, actorID string) ([]domain.UserWithCount, error)
	SetRole(ctx context.Context, actorID, targetUserID string, role domain.UserRole) (*domain.User, error)
}

type statsService interface {
	Overview(ctx context.Context, actorID string) (*domain.InspectionStats, error)
	DefectTally(ctx context.Context, actorID string) ([]domain.DefectTallyEntry, error)
}

// AdminHandler serves the admin status, user management, and statistics
// endpoints.
type AdminHandler struct {
	status statusService
	users  userService
	stats  statsService
	log    *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(status statusService, users userService, stats statsService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		status: status,
		users:  users,
		stats:  stats,
		log:    logger.With("handler", "admin"),
	}
}

// CheckStatus handles GET /api/admin/status/{userId}.
//
// Always 200 for a well-formed request: unknown users are simply not
// admins. This endpoint drives UI element visibility, not enforcement;
// every privileged operation re-checks the role server-side.
func (h *AdminHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	isAdmin, err := h.status.IsAdmin(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"isAdmin": isAdmin})
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), actorID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserListResponse(users))
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetUserRole handles PUT /api/admin/users/{userId}/role.
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("userId")

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.users.SetRole(r.Context(), actorID(r), targetID, domain.UserRole(req.Role))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User role updated successfully",
		"user":    toUserResponse(updated),
	})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Overview(r.Context(), actorID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DefectStats handles GET /api/admin/stats/defects.
func (h *AdminHandler) DefectStats(w http.ResponseWriter, r *http.Request) {
	entries, err := h.stats.DefectTally(r.Context(), actorID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
