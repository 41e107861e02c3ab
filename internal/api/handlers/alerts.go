package handlers

import (
	"net/http"

	"gps-monitor/internal/models"
	"gps-monitor/internal/services"
	"gps-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	service *services.DashboardService
}

func NewAlertHandler(service *services.DashboardService) *AlertHandler {
	return &AlertHandler{service: service}
}

// GetAlerts retrieves all alerts, or only unacknowledged ones with ?unacknowledged=true
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	var query AlertQuery
	if !bindQuery(c, &query) {
		return
	}

	alerts, err := h.service.ListAlerts(c.Request.Context(), query.UnacknowledgedOnly())
	if err != nil {
		respondError(c, err)
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}

	utils.SuccessResponse(c, http.StatusOK, "Alerts retrieved successfully", alerts)
}

// AcknowledgeAlert marks an alert as read in the alerting system
func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	alertID := c.Param("id")
	if err := h.service.AcknowledgeAlert(c.Request.Context(), alertID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert acknowledged successfully", gin.H{"id": alertID})
}
