package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"gps-monitor/internal/dashboard"
	"gps-monitor/internal/models"
	"gps-monitor/internal/services"
	"gps-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	service *services.DashboardService
}

func NewUnitHandler(service *services.DashboardService) *UnitHandler {
	return &UnitHandler{service: service}
}

// UnitList is the units payload: raw units plus their table rows.
type UnitList struct {
	Units []models.Unit       `json:"units"`
	Rows  []dashboard.UnitRow `json:"rows"`
	Total int                 `json:"total"`
}

// GetUnits retrieves units matching the q and status query parameters
func (h *UnitHandler) GetUnits(c *gin.Context) {
	var query UnitQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.Filter()
	if err != nil {
		respondError(c, err)
		return
	}

	units, err := h.service.ListUnits(c.Request.Context(), query.Q, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if units == nil {
		units = []models.Unit{}
	}

	utils.SuccessResponse(c, http.StatusOK, "Units retrieved successfully", UnitList{
		Units: units,
		Rows:  dashboard.BuildUnitRows(units, h.service.Formatter(), h.service.Now()),
		Total: len(units),
	})
}

// GetUnit retrieves the assembled detail view of a unit
func (h *UnitHandler) GetUnit(c *gin.Context) {
	detail, err := h.service.UnitDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Unit retrieved successfully", detail)
}

// ExportUnits downloads the filtered units as CSV
func (h *UnitHandler) ExportUnits(c *gin.Context) {
	var query UnitQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.Filter()
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Request.Context(), &buf, query.Q, filter); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("units-%s.csv", h.service.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ContactDriver starts contact with the driver of a unit
func (h *UnitHandler) ContactDriver(c *gin.Context) {
	if err := h.service.ContactDriver(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver contacted", nil)
}
