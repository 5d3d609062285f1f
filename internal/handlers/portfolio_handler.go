package handlers

import (
	"net/http"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type PortfolioHandler struct {
	portfolio *services.PortfolioService
	dashboard *services.DashboardService
}

func NewPortfolioHandler(portfolio *services.PortfolioService, dashboard *services.DashboardService) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, dashboard: dashboard}
}

// Portfolio returns every public section. Sections that failed to load come
// back empty.
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.portfolio.Load(r.Context())))
}

func (h *PortfolioHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, "PortfolioHandler.Stats", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(stats))
}
