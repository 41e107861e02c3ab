package repository

import (
	"context"
	"fmt"

	"gps-monitor/internal/models"
	"gps-monitor/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AlertRepository struct {
	collection *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{
		collection: db.Collection(database.AlertsCollection),
	}
}

// FindAll returns alerts, most recent first.
func (r *AlertRepository) FindAll(ctx context.Context) ([]models.Alert, error) {
	return r.find(ctx, bson.M{})
}

func (r *AlertRepository) FindUnacknowledged(ctx context.Context) ([]models.Alert, error) {
	return r.find(ctx, bson.M{"acknowledged": false})
}

// FindByUnitID returns the alerts raised against one unit, most recent first.
func (r *AlertRepository) FindByUnitID(ctx context.Context, unitID string) ([]models.Alert, error) {
	return r.find(ctx, bson.M{"unit_id": unitID})
}

func (r *AlertRepository) find(ctx context.Context, filter bson.M) ([]models.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer cursor.Close(ctx)

	alerts := []models.Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}

// MarkAsAcknowledged sets acknowledged on the alert. Acknowledging an already
// acknowledged alert succeeds.
func (r *AlertRepository) MarkAsAcknowledged(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"acknowledged": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("alert %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *AlertRepository) UpsertMany(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(alerts))
	for _, alert := range alerts {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": alert.ID}).
			SetReplacement(alert).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to upsert alerts: %w", err)
	}
	return nil
}
