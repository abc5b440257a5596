package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/database"
)

// DashboardHandler serves the reporting endpoints
type DashboardHandler struct {
	dashboardRepo *database.DashboardRepository
	logger        *logrus.Logger
}

func NewDashboardHandler(dashboardRepo *database.DashboardRepository, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardRepo: dashboardRepo, logger: logger}
}

// Vacancies returns per-building bed availability for active buildings
// GET /api/dashboard/vacancies
func (h *DashboardHandler) Vacancies(c *gin.Context) {
	vacancies, err := h.dashboardRepo.BuildingVacancies()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch vacancies")
		return
	}
	c.JSON(http.StatusOK, vacancies)
}

// ContractorHeadcounts returns open allocations grouped by contractor
// GET /api/dashboard/contractors
func (h *DashboardHandler) ContractorHeadcounts(c *gin.Context) {
	rows, err := h.dashboardRepo.ContractorHeadcounts()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch contractor headcounts")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Summary returns the headline dashboard card
// GET /api/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardRepo.Summary()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dashboard summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
