package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"gps-monitor/internal/models"
	"gps-monitor/internal/websocket"
	"gps-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// WebSocketHandler handles WebSocket connections for live dashboard events
type WebSocketHandler struct {
	hub *websocket.Hub
}

func NewWebSocketHandler(hub *websocket.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket upgrades the connection. ?statuses=active,offline limits
// the events the client receives.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	statuses, err := parseStatuses(c.QueryArray("statuses"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid statuses filter", err)
		return
	}

	// ServeWS writes its own error response when the upgrade fails
	if err := h.hub.ServeWS(c.Writer, c.Request, websocket.EventFilters{Statuses: statuses}); err != nil {
		log.WithError(err).Warn("websocket connection rejected")
	}
}

// GetConnectedClients returns the number of connected WebSocket clients
func (h *WebSocketHandler) GetConnectedClients(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "WebSocket clients retrieved successfully", gin.H{
		"connectedClients": h.hub.ConnectedClients(),
		"stats":            h.hub.Stats(),
	})
}

func parseStatuses(raw []string) ([]models.UnitStatus, error) {
	var statuses []models.UnitStatus
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status := models.UnitStatus(part)
			if !status.Valid() {
				return nil, fmt.Errorf("unknown unit status %q", part)
			}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}
