package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gps-monitor/internal/models"
)

var csvHeader = []string{
	"unit_code", "vehicle_type", "status", "driver", "address", "lat", "lng", "last_gps_active", "alerts",
}

// WriteUnitsCSV writes one row per unit after a header row.
func WriteUnitsCSV(w io.Writer, units []models.Unit, f *Formatter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, unit := range units {
		record := []string{
			unit.UnitCode,
			unit.VehicleType,
			string(unit.Status),
			unit.Driver,
			unit.Location.Address,
			strconv.FormatFloat(unit.Location.Lat, 'f', 6, 64),
			strconv.FormatFloat(unit.Location.Lng, 'f', 6, 64),
			f.Absolute(unit.LastGPSActive),
			strconv.Itoa(len(unit.Alerts)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for unit %s: %w", unit.UnitCode, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
