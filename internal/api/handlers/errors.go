package handlers

import (
	"errors"
	"net/http"

	"gps-monitor/internal/dashboard"
	"gps-monitor/internal/services"
	"gps-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, dashboard.ErrInvalidStatusFilter):
		status, message = http.StatusBadRequest, "Invalid status filter"
	case errors.Is(err, services.ErrUnitNotFound):
		status, message = http.StatusNotFound, "Unit not found"
	case errors.Is(err, services.ErrAlertNotFound):
		status, message = http.StatusNotFound, "Alert not found"
	case errors.Is(err, services.ErrNoDriver):
		status, message = http.StatusConflict, "Unit has no driver assigned"
	case errors.Is(err, services.ErrAcknowledgeUnsupported):
		status, message = http.StatusNotImplemented, "Alert acknowledgement is not supported"
	case errors.Is(err, services.ErrContactDriverUnsupported):
		status, message = http.StatusNotImplemented, "Contacting drivers is not supported yet"
	case errors.Is(err, services.ErrProviderUnavailable):
		status, message = http.StatusBadGateway, "Data provider unavailable"
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error(message)
	}
	_ = c.Error(err)
	utils.ErrorResponse(c, status, message, err)
}
