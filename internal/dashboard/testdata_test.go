package dashboard

import (
	"time"

	"gps-monitor/internal/models"
)

var wib = time.FixedZone("WIB", 7*60*60)

func testUnits() []models.Unit {
	return []models.Unit{
		{
			ID: "1", UnitCode: "TRK001", VehicleType: "Truck", Status: models.StatusOffline,
			Location:      models.Location{Lat: -6.2088, Lng: 106.8456, Address: "Jl. Thamrin, Jakarta Pusat"},
			LastGPSActive: time.Date(2024, 1, 15, 14, 30, 0, 0, wib),
			Driver:        "Ahmad Sutrisno",
		},
		{
			ID: "2", UnitCode: "VAN002", VehicleType: "Van", Status: models.StatusActive,
			Location:      models.Location{Lat: -6.1944, Lng: 106.8229, Address: "Jl. Sudirman, Jakarta Selatan"},
			LastGPSActive: time.Date(2024, 1, 15, 16, 58, 0, 0, wib),
			Driver:        "Budi Santoso",
		},
		{
			ID: "3", UnitCode: "VAN003", VehicleType: "Van", Status: models.StatusMaintenance,
			Location:      models.Location{Lat: -6.2615, Lng: 106.7810, Address: "Jl. Raya Kebayoran, Jakarta Selatan"},
			LastGPSActive: time.Date(2024, 1, 14, 16, 20, 0, 0, wib),
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
			ID: "7", UnitCode: "TRK007", VehicleType: "Truck", Status: models.StatusInactive,
			Location:      models.Location{Lat: -6.35, Lng: 106.8, Address: "Jl. Raya Bogor, Depok"},
			LastGPSActive: time.Date(2024, 1, 12, 10, 30, 0, 0, wib),
			Driver:        "Gilang Ramadan",
		},
	}
}

func testAlerts() []models.Alert {
	return []models.Alert{
		{ID: "1", UnitID: "1", Type: models.AlertTypeGPSOffline, Message: "GPS signal lost for TRK001", Timestamp: time.Date(2024, 1, 15, 14, 30, 0, 0, wib), Priority: models.PriorityHigh},
		{ID: "2", UnitID: "3", Type: models.AlertTypeMaintenanceDue, Message: "Scheduled maintenance overdue for VAN003", Timestamp: time.Date(2024, 1, 15, 9, 15, 0, 0, wib), Acknowledged: true, Priority: models.PriorityMedium},
		{ID: "3", UnitID: "1", Type: models.AlertTypeEmergency, Message: "Emergency button activated on TRK001", Timestamp: time.Date(2024, 1, 15, 16, 45, 0, 0, wib), Priority: models.PriorityCritical},
	}
}
