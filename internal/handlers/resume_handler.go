package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type ResumeHandler struct {
	resumes *services.ResumeService
}

func NewResumeHandler(resumes *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.resumes.List(r.Context())
	if err != nil {
		writeServiceError(w, "ResumeHandler.List", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ResumeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resume, err := h.resumes.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "ResumeHandler.Create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(resume))
}

func (h *ResumeHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	if err := h.resumes.SetActive(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "ResumeHandler.SetActive", err, "Resume not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Active resume updated"}))
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.resumes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "ResumeHandler.Delete", err, "Resume not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Resume deleted"}))
}
