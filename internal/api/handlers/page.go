package handlers

import (
	"net/http"
	"time"

	"gps-monitor/internal/dashboard"
	"gps-monitor/internal/services"
	"gps-monitor/internal/web"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// PageHandler serves the HTML dashboard. The engine must have web.Templates
// loaded.
type PageHandler struct {
	service     *services.DashboardService
	autoRefresh time.Duration
}

func NewPageHandler(service *services.DashboardService, autoRefresh time.Duration) *PageHandler {
	return &PageHandler{service: service, autoRefresh: autoRefresh}
}

// Show renders the dashboard for the q, status and unit query parameters
func (h *PageHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	state := dashboard.ViewStateFromQuery(c.Request.URL.Query())

	snap, err := h.service.Snapshot(ctx)
	if err != nil {
		respondPageError(c, err)
		return
	}
	overview := h.service.OverviewFor(snap)

	units := dashboard.FilterUnits(snap.Units, state.Query, state.Status)
	page := web.NewPage(state, overview, snap.Units, units, h.service.Formatter(), h.service.Now())
	if state.DetailOpen() && page.Detail == nil {
		log.WithField("unit", state.SelectedUnitID).Debug("selected unit not found")
	}
	page.RefreshSecs = int(h.autoRefresh.Seconds())

	c.HTML(http.StatusOK, web.PageTemplate, page)
}

// Refresh handles the page's refresh button and redirects back to the same view
func (h *PageHandler) Refresh(c *gin.Context) {
	if _, err := h.service.Refresh(c.Request.Context(), services.TriggerManual); err != nil {
		respondPageError(c, err)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	state := dashboard.ViewStateFromQuery(c.Request.PostForm)
	target := state.CloseURL()
	if state.DetailOpen() {
		target = state.SelectURL(state.SelectedUnitID)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func respondPageError(c *gin.Context, err error) {
	log.WithError(err).Error("failed to render dashboard")
	_ = c.Error(err)
	c.String(http.StatusBadGateway, "Dashboard data is unavailable, please try again later.")
}
