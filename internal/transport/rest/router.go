package rest

import (
	"net/http"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Admin      *AdminHandler
	Inspection *InspectionHandler
	Image      *ImageHandler
	Health     *HealthHandler
}

// NewRouter builds the route table. Middleware is applied by the caller
// around the returned mux, not here.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/admin/status/{userId}", h.Admin.CheckStatus)

	mux.HandleFunc("GET /api/admin/inspections", h.Inspection.List)
	mux.HandleFunc("GET /api/admin/inspections/{id}", h.Inspection.Get)
	mux.HandleFunc("PUT /api/admin/inspections/{id}", h.Inspection.Update)
	mux.HandleFunc("DELETE /api/admin/inspections/{id}", h.Inspection.Delete)

	mux.HandleFunc("POST /api/admin/inspections/{id}/images", h.Image.Upload)
	mux.HandleFunc("GET /api/admin/inspections/{id}/images", h.Image.List)
	mux.HandleFunc("DELETE /api/admin/images/{id}", h.Image.Delete)

	mux.HandleFunc("GET /api/admin/stats", h.Admin.Stats)
	mux.HandleFunc("GET /api/admin/stats/defects", h.Admin.DefectStats)

	mux.HandleFunc("GET /api/admin/users", h.Admin.ListUsers)
	mux.HandleFunc("PUT /api/admin/users/{userId}/role", h.Admin.SetUserRole)

	return mux
}
