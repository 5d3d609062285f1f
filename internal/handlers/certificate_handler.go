package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type CertificateHandler struct {
	certificates *services.CertificateService
}

func NewCertificateHandler(certificates *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

func (h *CertificateHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.certificates.List(r.Context())
	if err != nil {
		writeServiceError(w, "CertificateHandler.List", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *CertificateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CertificateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.certificates.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "CertificateHandler.Create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(c))
}

func (h *CertificateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CertificateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.certificates.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, "CertificateHandler.Update", err, "Certificate not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(c))
}

func (h *CertificateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.certificates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "CertificateHandler.Delete", err, "Certificate not found")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Certificate deleted"}))
}
