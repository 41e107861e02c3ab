package dashboard

import (
	"gps-monitor/internal/models"
)

// AttachAlerts sets each unit's Alerts to the alerts referencing it, keeping
// the order of the alerts collection. The units slice is copied.
func AttachAlerts(units []models.Unit, alerts []models.Alert) []models.Unit {
	byUnit := make(map[string][]models.Alert, len(units))
	for _, alert := range alerts {
		byUnit[alert.UnitID] = append(byUnit[alert.UnitID], alert)
	}

	attached := make([]models.Unit, len(units))
	for i, unit := range units {
		unit.Alerts = byUnit[unit.ID]
		if unit.Alerts == nil {
			unit.Alerts = []models.Alert{}
		}
		attached[i] = unit
	}
	return attached
}

// DanglingAlerts returns alerts whose UnitID does not reference any unit.
func DanglingAlerts(units []models.Unit, alerts []models.Alert) []models.Alert {
	known := make(map[string]struct{}, len(units))
	for _, unit := range units {
		known[unit.ID] = struct{}{}
	}

	var dangling []models.Alert
	for _, alert := range alerts {
		if _, ok := known[alert.UnitID]; !ok {
			dangling = append(dangling, alert)
		}
	}
	return dangling
}

// FindUnit returns the unit with the given ID, or nil.
func FindUnit(units []models.Unit, id string) *models.Unit {
	for i := range units {
		if units[i].ID == id {
			return &units[i]
		}
	}
	return nil
}
