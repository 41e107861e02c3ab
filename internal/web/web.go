// Package web renders the HTML dashboard page.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gps-monitor/internal/dashboard"
	"gps-monitor/internal/models"
	"gps-monitor/internal/services"
)

const PageTemplate = "dashboard.html"

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"statusClass": statusClass,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

func statusClass(status models.UnitStatus) string {
	switch status {
	case models.StatusActive:
		return "status-active"
	case models.StatusOffline:
		return "status-offline"
	case models.StatusMaintenance:
		return "status-maintenance"
	default:
		return "status-inactive"
	}
}

type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

// BannerAlert is one unacknowledged alert in the header banner.
type BannerAlert struct {
	UnitCode      string
	Message       string
	URL           string
	PriorityLabel string
	Badge         dashboard.BadgeVariant
	Time          string
}

// Page is everything the dashboard template renders.
type Page struct {
	State         dashboard.ViewState
	Locale        dashboard.Locale
	Stats         models.DashboardStats
	LastUpdated   string
	BannerTotal   int
	BannerAlerts  []BannerAlert
	BannerMore    string
	StatusOptions []StatusOption
	Rows          []dashboard.UnitRow
	Detail        *dashboard.UnitDetail
	CloseURL      string
	ExportURL     string
	RefreshSecs   int
}

// NewPage builds the page for state. units is the filtered list; all is the
// whole snapshot, used to resolve banner alerts and the selected unit.
func NewPage(state dashboard.ViewState, overview *services.Overview, all, units []models.Unit, f *dashboard.Formatter, now time.Time) *Page {
	locale := f.Locale()
	page := &Page{
		State:       state,
		Locale:      locale,
		Stats:       overview.Stats,
		LastUpdated: overview.LastUpdated,
		BannerTotal: overview.AlertBanner.Total,
		Rows:        dashboard.BuildUnitRows(units, f, now),
		CloseURL:    state.CloseURL(),
		ExportURL:   exportURL(state),
	}

	for _, alert := range overview.AlertBanner.Alerts {
		_, badge := dashboard.ClassifyPriority(alert.Priority)
		item := BannerAlert{
			UnitCode:      alert.UnitID,
			Message:       alert.Message,
			PriorityLabel: strings.ToUpper(string(alert.Priority)),
			Badge:         badge,
			Time:          f.Clock(alert.Timestamp),
		}
		if unit := dashboard.FindUnit(all, alert.UnitID); unit != nil {
			item.UnitCode = unit.UnitCode
			item.URL = state.SelectURL(unit.ID)
		}
		page.BannerAlerts = append(page.BannerAlerts, item)
	}
	if overview.AlertBanner.Remaining > 0 {
		page.BannerMore = fmt.Sprintf(locale.MoreAlerts, overview.AlertBanner.Remaining)
	}

	for _, filter := range dashboard.StatusFilters {
		label := locale.AllStatuses
		if filter != dashboard.StatusAll {
			label = locale.StatusLabel(models.UnitStatus(filter))
		}
		page.StatusOptions = append(page.StatusOptions, StatusOption{
			Value:    string(filter),
			Label:    label,
			Selected: filter == state.Status || (state.Status == "" && filter == dashboard.StatusAll),
		})
	}

	if state.DetailOpen() {
		page.Detail = dashboard.BuildUnitDetail(dashboard.FindUnit(all, state.SelectedUnitID), f)
	}
	return page
}

func exportURL(state dashboard.ViewState) string {
	state.CloseDetail()
	values := state.Values()
	if len(values) == 0 {
		return "/api/v1/units/export"
	}
	return "/api/v1/units/export?" + values.Encode()
}
