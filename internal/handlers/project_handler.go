package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context())
	if err != nil {
		writeServiceError(w, "ProjectHandler.List", err, "")
		return
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		list = models.FilterProjectsByTag(list, tag)
	}
	if category := r.URL.Query().Get("category"); category != "" {
		list = models.FilterProjects(list, category)
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.projects.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "ProjectHandler.Create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(p))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.projects.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, "ProjectHandler.Update", err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(p))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "ProjectHandler.Delete", err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Project deleted"}))
}
