package dashboard

import (
	"gps-monitor/internal/models"
)

// DefaultBannerLimit is how many unacknowledged alerts the banner lists.
const DefaultBannerLimit = 3

// ComputeStats derives the dashboard counters in a single pass over each
// collection. Units outside active/offline/maintenance only count toward
// the total.
func ComputeStats(units []models.Unit, alerts []models.Alert) models.DashboardStats {
	stats := models.DashboardStats{TotalUnits: len(units)}

	for i := range units {
		switch units[i].Status {
		case models.StatusActive:
			stats.ActiveUnits++
		case models.StatusOffline:
			stats.OfflineUnits++
		case models.StatusMaintenance:
			stats.MaintenanceUnits++
		}
	}

	for i := range alerts {
		if !alerts[i].Acknowledged {
			stats.AlertsCount++
		}
	}

	return stats
}

// UnacknowledgedAlerts returns the alerts still awaiting acknowledgement, in input order.
func UnacknowledgedAlerts(alerts []models.Alert) []models.Alert {
	pending := make([]models.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if !alert.Acknowledged {
			pending = append(pending, alert)
		}
	}
	return pending
}

// AlertBanner is the "needs attention" summary shown above the units table.
type AlertBanner struct {
	Total     int            `json:"total"`
	Alerts    []models.Alert `json:"alerts"`
	Remaining int            `json:"remaining"`
}

// Visible reports whether the banner has anything to show.
func (b AlertBanner) Visible() bool {
	return b.Total > 0
}

// BuildAlertBanner lists the first limit unacknowledged alerts and counts the rest.
func BuildAlertBanner(alerts []models.Alert, limit int) AlertBanner {
	if limit <= 0 {
		limit = DefaultBannerLimit
	}

	pending := UnacknowledgedAlerts(alerts)
	banner := AlertBanner{Total: len(pending), Alerts: pending}
	if len(pending) > limit {
		banner.Alerts = pending[:limit]
		banner.Remaining = len(pending) - limit
	}
	return banner
}
