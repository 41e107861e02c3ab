package repository

import (
	"context"
	"errors"
	"time"

	"gps-monitor/internal/models"
)

// queryTimeout bounds every call into a backing store.
const queryTimeout = 10 * time.Second

var ErrNotFound = errors.New("not found")

// Provider supplies the units and alerts shown on the dashboard. Units are
// returned without Alerts attached.
type Provider interface {
	ListUnits(ctx context.Context) ([]models.Unit, error)
	ListAlerts(ctx context.Context) ([]models.Alert, error)
}

// AlertAcknowledger marks an alert as acknowledged in the store that owns it.
// It returns ErrNotFound for an unknown alert ID.
type AlertAcknowledger interface {
	AcknowledgeAlert(ctx context.Context, alertID string) error
}

// UnacknowledgedAlertLister is implemented by stores that can filter
// unacknowledged alerts server side.
type UnacknowledgedAlertLister interface {
	ListUnacknowledgedAlerts(ctx context.Context) ([]models.Alert, error)
}

// UnitGetter looks up a single unit with its alerts attached. It returns
// ErrNotFound for an unknown unit ID.
type UnitGetter interface {
	GetUnit(ctx context.Context, unitID string) (*models.Unit, error)
}

// Pinger is implemented by providers backed by a remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Seeder writes a dataset into a store, replacing documents with the same IDs.
type Seeder interface {
	Seed(ctx context.Context, units []models.Unit, alerts []models.Alert) error
}
