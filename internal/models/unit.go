package models

import (
	"time"
)

// UnitStatus is the operational classification of a tracked unit.
type UnitStatus string

const (
	StatusActive      UnitStatus = "active"
	StatusOffline     UnitStatus = "offline"
	StatusMaintenance UnitStatus = "maintenance"
	StatusInactive    UnitStatus = "inactive"
)

// UnitStatuses lists every status in display order.
var UnitStatuses = []UnitStatus{StatusActive, StatusOffline, StatusMaintenance, StatusInactive}

// Valid reports whether s is one of the known statuses.
func (s UnitStatus) Valid() bool {
	switch s {
	case StatusActive, StatusOffline, StatusMaintenance, StatusInactive:
		return true
	}
	return false
}

// Unit is a vehicle carrying a GPS device.
type Unit struct {
	ID              string             `bson:"_id" json:"id" validate:"required"`
	UnitCode        string             `bson:"unit_code" json:"unitCode" validate:"required"`
	VehicleType     string             `bson:"vehicle_type" json:"vehicleType"`
	Location        Location           `bson:"location" json:"location"`
	Status          UnitStatus         `bson:"status" json:"status" validate:"required,oneof=active offline maintenance inactive"`
	LastGPSActive   time.Time          `bson:"last_gps_active" json:"lastGPSActive"`
	Driver          string             `bson:"driver,omitempty" json:"driver,omitempty"`
	MaintenanceInfo *MaintenanceRecord `bson:"maintenance_info,omitempty" json:"maintenanceInfo,omitempty"`
	Alerts          []Alert            `bson:"-" json:"alerts"`
}

type Location struct {
	Lat     float64 `bson:"lat" json:"lat" validate:"min=-90,max=90"`
	Lng     float64 `bson:"lng" json:"lng" validate:"min=-180,max=180"`
	Address string  `bson:"address" json:"address"`
}

// HasDriver reports whether a driver is assigned to the unit.
func (u *Unit) HasDriver() bool {
	return u.Driver != ""
}

type DashboardStats struct {
	TotalUnits       int `json:"totalUnits"`
	ActiveUnits      int `json:"activeUnits"`
	OfflineUnits     int `json:"offlineUnits"`
	MaintenanceUnits int `json:"maintenanceUnits"`
	AlertsCount      int `json:"alertsCount"`
}
