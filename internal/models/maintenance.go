package models

import (
	"time"
)

// MaintenanceRecord is the downtime record the maintenance system keeps for a unit
// that is out of service. It is owned 1:1 by a Unit.
type MaintenanceRecord struct {
	DownCode           string    `bson:"down_code" json:"downCode" validate:"required"`
	OffDate            time.Time `bson:"off_date" json:"offDate"`
	RepairType         string    `bson:"repair_type" json:"repairType"`
	RepairStartDate    time.Time `bson:"repair_start_date" json:"repairStartDate"`
	AssignedTechnician string    `bson:"assigned_technician" json:"assignedTechnician"`
	Location           string    `bson:"location" json:"location"`
}
