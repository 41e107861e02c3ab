package repository

import (
	"context"

	"gps-monitor/internal/models"
	"gps-monitor/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProvider reads units and alerts from MongoDB and passes
// acknowledgements through to the alerts collection.
type MongoProvider struct {
	db     *mongo.Database
	units  *UnitRepository
	alerts *AlertRepository
}

func NewMongoProvider(db *mongo.Database) *MongoProvider {
	return &MongoProvider{
		db:     db,
		units:  NewUnitRepository(db),
		alerts: NewAlertRepository(db),
	}
}

func (p *MongoProvider) ListUnits(ctx context.Context) ([]models.Unit, error) {
	return p.units.FindAll(ctx)
}

func (p *MongoProvider) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return p.alerts.FindAll(ctx)
}

func (p *MongoProvider) ListUnacknowledgedAlerts(ctx context.Context) ([]models.Alert, error) {
	return p.alerts.FindUnacknowledged(ctx)
}

// GetUnit reads one unit and the alerts raised against it.
func (p *MongoProvider) GetUnit(ctx context.Context, unitID string) (*models.Unit, error) {
	unit, err := p.units.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	alerts, err := p.alerts.FindByUnitID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	unit.Alerts = alerts
	return unit, nil
}

func (p *MongoProvider) AcknowledgeAlert(ctx context.Context, alertID string) error {
	return p.alerts.MarkAsAcknowledged(ctx, alertID)
}

func (p *MongoProvider) Seed(ctx context.Context, units []models.Unit, alerts []models.Alert) error {
	if err := ValidateDataset(units, alerts); err != nil {
		return err
	}
	if err := p.units.UpsertMany(ctx, units); err != nil {
		return err
	}
	return p.alerts.UpsertMany(ctx, alerts)
}

func (p *MongoProvider) Ping(ctx context.Context) error {
	return database.MongoHealth(ctx, p.db)
}
