package dashboard

import (
	"time"

	"gps-monitor/internal/models"
)

// UnitRow is one line of the units table.
type UnitRow struct {
	ID           string            `json:"id"`
	UnitCode     string            `json:"unitCode"`
	VehicleType  string            `json:"vehicleType"`
	Status       models.UnitStatus `json:"status"`
	StatusLabel  string            `json:"statusLabel"`
	Driver       string            `json:"driver"`
	Address      string            `json:"address"`
	LastSeen     string            `json:"lastSeen"`
	LastSeenLive bool              `json:"lastSeenLive"`
	AlertCount   int               `json:"alertCount"`
}

func BuildUnitRows(units []models.Unit, f *Formatter, now time.Time) []UnitRow {
	locale := f.Locale()
	rows := make([]UnitRow, 0, len(units))
	for i := range units {
		unit := &units[i]
		row := UnitRow{
			ID:           unit.ID,
			UnitCode:     unit.UnitCode,
			VehicleType:  unit.VehicleType,
			Status:       unit.Status,
			StatusLabel:  locale.StatusLabel(unit.Status),
			Driver:       "-",
			Address:      unit.Location.Address,
			LastSeen:     f.Relative(unit.LastGPSActive, now),
			LastSeenLive: unit.Status == models.StatusActive,
			AlertCount:   len(unit.Alerts),
		}
		if unit.HasDriver() {
			row.Driver = unit.Driver
		}
		rows = append(rows, row)
	}
	return rows
}
