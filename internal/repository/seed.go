package repository

import (
	"time"

	"gps-monitor/internal/models"
)

// wib is Western Indonesia Time, the zone the seed timestamps are recorded in.
var wib = time.FixedZone("WIB", 7*60*60)

// SeedUnits returns the sample fleet. Units that are currently active report
// now as their last GPS fix.
func SeedUnits(now time.Time) []models.Unit {
	return []models.Unit{
		{
			ID: "1", UnitCode: "TRK001", VehicleType: "Truck",
			Location:      models.Location{Lat: -6.2088, Lng: 106.8456, Address: "Jl. Thamrin, Jakarta Pusat"},
			Status:        models.StatusOffline,
			LastGPSActive: time.Date(2024, 1, 15, 14, 30, 0, 0, wib),
			Driver:        "Ahmad Sutrisno",
		},
		{
			ID: "2", UnitCode: "VAN002", VehicleType: "Van",
			Location:      models.Location{Lat: -6.1944, Lng: 106.8229, Address: "Jl. Sudirman, Jakarta Selatan"},
			Status:        models.StatusActive,
			LastGPSActive: now,
			Driver:        "Budi Santoso",
		},
		{
			ID: "3", UnitCode: "VAN003", VehicleType: "Van",
			Location:      models.Location{Lat: -6.2615, Lng: 106.7810, Address: "Jl. Raya Kebayoran, Jakarta Selatan"},
			Status:        models.StatusMaintenance,
			LastGPSActive: time.Date(2024, 1, 14, 16, 20, 0, 0, wib),
			Driver:        "Catur Wibowo",
			MaintenanceInfo: &models.MaintenanceRecord{
				DownCode:           "ENG001",
				OffDate:            time.Date(2024, 1, 14, 8, 0, 0, 0, wib),
				RepairType:         "Engine Overhaul",
				RepairStartDate:    time.Date(2024, 1, 15, 7, 0, 0, 0, wib),
				AssignedTechnician: "Eko Prasetyo",
				Location:           "Workshop A, Kemayoran",
			},
		},
		{
			ID: "4", UnitCode: "TRK004", VehicleType: "Truck",
			Location:      models.Location{Lat: -6.1751, Lng: 106.8650, Address: "Jl. Gatot Subroto, Jakarta Selatan"},
			Status:        models.StatusActive,
			LastGPSActive: now,
			Driver:        "Dedi Kurniawan",
		},
		{
			ID: "5", UnitCode: "TRK005", VehicleType: "Truck",
			Location:      models.Location{Lat: -6.1588, Lng: 106.8300, Address: "Jl. HR Rasuna Said, Jakarta Selatan"},
			Status:        models.StatusOffline,
			LastGPSActive: time.Date(2024, 1, 15, 16, 45, 0, 0, wib),
			Driver:        "Eko Supriyanto",
		},
		{
			ID: "6", UnitCode: "VAN006", VehicleType: "Van",
			Location:      models.Location{Lat: -6.1200, Lng: 106.8500, Address: "Jl. Pluit Raya, Jakarta Utara"},
			Status:        models.StatusActive,
			LastGPSActive: now,
			Driver:        "Farid Hasan",
		},
		{
			ID: "7", UnitCode: "TRK007", VehicleType: "Truck",
			Location:      models.Location{Lat: -6.3500, Lng: 106.8000, Address: "Jl. Raya Bogor, Depok"},
			Status:        models.StatusInactive,
			LastGPSActive: time.Date(2024, 1, 12, 10, 30, 0, 0, wib),
			Driver:        "Gilang Ramadan",
		},
	}
}

// SeedAlerts returns the alerts raised against SeedUnits.
func SeedAlerts() []models.Alert {
	return []models.Alert{
		{
			ID: "1", UnitID: "1", Type: models.AlertTypeGPSOffline,
			Message:   "GPS signal lost for TRK001 - last seen in Jakarta Selatan",
			Timestamp: time.Date(2024, 1, 15, 14, 30, 0, 0, wib),
			Priority:  models.PriorityHigh,
		},
		{
			ID: "2", UnitID: "3", Type: models.AlertTypeMaintenanceDue,
			Message:      "Scheduled maintenance overdue for VAN003",
			Timestamp:    time.Date(2024, 1, 15, 9, 15, 0, 0, wib),
			Acknowledged: true,
			Priority:     models.PriorityMedium,
		},
		{
			ID: "3", UnitID: "5", Type: models.AlertTypeEmergency,
			Message:   "Emergency button activated on TRK005",
			Timestamp: time.Date(2024, 1, 15, 16, 45, 0, 0, wib),
			Priority:  models.PriorityCritical,
		},
	}
}
