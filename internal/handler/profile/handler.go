package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	"github.com/cabinet-ia/patrimoine/backend/pkg/utils"
)

// Handler serves the expert-profile catalogue.
type Handler struct {
	profiles profile.Store
}

// New creates the profile handler.
func New(profiles profile.Store) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes mounts the profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles", h.handleListProfiles)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"profiles":       h.profiles.List(),
		"referenceYears": profile.ReferenceYears,
	})
}
