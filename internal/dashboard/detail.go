package dashboard

import (
	"fmt"
	"strings"

	"gps-monitor/internal/models"
)

// Tone is the visual classification of an alert icon.
type Tone string

const (
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	TonePrimary Tone = "primary"
	ToneMuted   Tone = "muted"
)

// BadgeVariant is the badge style used for an alert's priority label.
type BadgeVariant string

const (
	BadgeDestructive BadgeVariant = "destructive"
	BadgeSecondary   BadgeVariant = "secondary"
)

// ClassifyPriority maps a priority onto its icon tone and badge variant.
func ClassifyPriority(p models.AlertPriority) (Tone, BadgeVariant) {
	switch p {
	case models.PriorityCritical:
		return ToneDanger, BadgeDestructive
	case models.PriorityHigh:
		return ToneWarning, BadgeSecondary
	case models.PriorityMedium:
		return TonePrimary, BadgeSecondary
	default:
		return ToneMuted, BadgeSecondary
	}
}

type UnitDetail struct {
	ID          string            `json:"id"`
	UnitCode    string            `json:"unitCode"`
	VehicleType string            `json:"vehicleType"`
	Status      models.UnitStatus `json:"status"`
	StatusLabel string            `json:"statusLabel"`
	Address     string            `json:"address"`
	Coordinates string            `json:"coordinates"`
	Lat         float64           `json:"lat"`
	Lng         float64           `json:"lng"`
	LastActive  string            `json:"lastActive"`
	Driver      string            `json:"driver"`
	HasDriver   bool              `json:"hasDriver"`
	Maintenance *MaintenanceView  `json:"maintenance,omitempty"`
	Alerts      []AlertView       `json:"alerts"`
}

// HasAlerts reports whether the alerts section should be shown.
func (d *UnitDetail) HasAlerts() bool {
	return len(d.Alerts) > 0
}

type MaintenanceView struct {
	DownCode           string `json:"downCode"`
	RepairType         string `json:"repairType"`
	OffDate            string `json:"offDate"`
	RepairStartDate    string `json:"repairStartDate"`
	AssignedTechnician string `json:"assignedTechnician"`
	Location           string `json:"location"`
}

type AlertView struct {
	ID             string               `json:"id"`
	Type           models.AlertType     `json:"type"`
	Message        string               `json:"message"`
	Priority       models.AlertPriority `json:"priority"`
	PriorityLabel  string               `json:"priorityLabel"`
	Tone           Tone                 `json:"tone"`
	Badge          BadgeVariant         `json:"badge"`
	Timestamp      string               `json:"timestamp"`
	Acknowledged   bool                 `json:"acknowledged"`
	CanAcknowledge bool                 `json:"canAcknowledge"`
}

// BuildAlertView classifies and formats a single alert.
func BuildAlertView(alert models.Alert, f *Formatter) AlertView {
	tone, badge := ClassifyPriority(alert.Priority)
	return AlertView{
		ID:             alert.ID,
		Type:           alert.Type,
		Message:        alert.Message,
		Priority:       alert.Priority,
		PriorityLabel:  strings.ToUpper(string(alert.Priority)),
		Tone:           tone,
		Badge:          badge,
		Timestamp:      f.Medium(alert.Timestamp),
		Acknowledged:   alert.Acknowledged,
		CanAcknowledge: !alert.Acknowledged,
	}
}

// BuildUnitDetail assembles the detail view of unit. A nil unit yields nil.
func BuildUnitDetail(unit *models.Unit, f *Formatter) *UnitDetail {
	if unit == nil {
		return nil
	}
	locale := f.Locale()

	detail := &UnitDetail{
		ID:          unit.ID,
		UnitCode:    unit.UnitCode,
		VehicleType: unit.VehicleType,
		Status:      unit.Status,
		StatusLabel: locale.StatusLabel(unit.Status),
		Address:     unit.Location.Address,
		Coordinates: fmt.Sprintf("%.6f, %.6f", unit.Location.Lat, unit.Location.Lng),
		Lat:         unit.Location.Lat,
		Lng:         unit.Location.Lng,
		LastActive:  f.Long(unit.LastGPSActive),
		Driver:      locale.NoDriver,
		HasDriver:   unit.HasDriver(),
		Alerts:      make([]AlertView, 0, len(unit.Alerts)),
	}
	if unit.HasDriver() {
		detail.Driver = unit.Driver
	}

	if m := unit.MaintenanceInfo; m != nil {
		detail.Maintenance = &MaintenanceView{
			DownCode:           m.DownCode,
			RepairType:         m.RepairType,
			OffDate:            f.Long(m.OffDate),
			RepairStartDate:    f.Long(m.RepairStartDate),
			AssignedTechnician: m.AssignedTechnician,
			Location:           m.Location,
		}
	}

	for _, alert := range unit.Alerts {
		detail.Alerts = append(detail.Alerts, BuildAlertView(alert, f))
	}

	return detail
}
