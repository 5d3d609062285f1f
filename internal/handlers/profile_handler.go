package handlers

import (
	"net/http"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns the site profile, or an empty one before the first save.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	prof, _, err := h.profiles.Get(r.Context())
	if err != nil {
		writeServiceError(w, "ProfileHandler.GetProfile", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prof, err := h.profiles.Save(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "ProfileHandler.UpsertProfile", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}
