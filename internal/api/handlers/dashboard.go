package handlers

import (
	"net/http"

	"gps-monitor/internal/services"
	"gps-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboard returns the summary counters, alert banner and last refresh time
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Dashboard retrieved successfully", overview)
}

// Refresh reloads the dashboard from the data provider
func (h *DashboardHandler) Refresh(c *gin.Context) {
	overview, err := h.service.Refresh(c.Request.Context(), services.TriggerManual)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Dashboard refreshed successfully", overview)
}
