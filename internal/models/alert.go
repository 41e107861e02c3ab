package models

import (
	"time"
)

// AlertType classifies what raised an alert.
type AlertType string

const (
	AlertTypeGPSOffline     AlertType = "gps_offline"
	AlertTypeMaintenanceDue AlertType = "maintenance_due"
	AlertTypeEmergency      AlertType = "emergency"
	AlertTypeRouteDeviation AlertType = "route_deviation"
)

// AlertPriority is the urgency of an alert.
type AlertPriority string

const (
	PriorityLow      AlertPriority = "low"
	PriorityMedium   AlertPriority = "medium"
	PriorityHigh     AlertPriority = "high"
	PriorityCritical AlertPriority = "critical"
)

type Alert struct {
	ID           string        `bson:"_id" json:"id" validate:"required"`
	UnitID       string        `bson:"unit_id" json:"unitId" validate:"required"`
	Type         AlertType     `bson:"type" json:"type" validate:"required,oneof=gps_offline maintenance_due emergency route_deviation"`
	Message      string        `bson:"message" json:"message" validate:"required"`
	Timestamp    time.Time     `bson:"timestamp" json:"timestamp"`
	Acknowledged bool          `bson:"acknowledged" json:"acknowledged"`
	Priority     AlertPriority `bson:"priority" json:"priority" validate:"required,oneof=low medium high critical"`
}
