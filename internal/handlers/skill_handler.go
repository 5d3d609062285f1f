package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type SkillHandler struct {
	skills *services.SkillService
}

func NewSkillHandler(skills *services.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.skills.List(r.Context())
	if err != nil {
		writeServiceError(w, "SkillHandler.List", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	skill, err := h.skills.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "SkillHandler.Create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(skill))
}

func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.SkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	skill, err := h.skills.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, "SkillHandler.Update", err, "Skill not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(skill))
}

func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.skills.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "SkillHandler.Delete", err, "Skill not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Skill deleted"}))
}
