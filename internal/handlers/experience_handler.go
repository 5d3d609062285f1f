package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type ExperienceHandler struct {
	experience *services.ExperienceService
}

func NewExperienceHandler(experience *services.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experience: experience}
}

func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.experience.List(r.Context())
	if err != nil {
		writeServiceError(w, "ExperienceHandler.List", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.experience.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "ExperienceHandler.Create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(e))
}

func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.ExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.experience.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, "ExperienceHandler.Update", err, "Experience not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(e))
}

func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.experience.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "ExperienceHandler.Delete", err, "Experience not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Experience deleted"}))
}
