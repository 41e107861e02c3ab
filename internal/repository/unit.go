package repository

import (
	"context"
	"errors"
	"fmt"

	"gps-monitor/internal/models"
	"gps-monitor/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UnitRepository struct {
	collection *mongo.Collection
}

func NewUnitRepository(db *mongo.Database) *UnitRepository {
	return &UnitRepository{
		collection: db.Collection(database.UnitsCollection),
	}
}

// FindAll returns every unit ordered by unit code.
func (r *UnitRepository) FindAll(ctx context.Context) ([]models.Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "unit_code", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer cursor.Close(ctx)

	units := []models.Unit{}
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("failed to decode units: %w", err)
	}
	return units, nil
}

func (r *UnitRepository) FindByID(ctx context.Context, id string) (*models.Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var unit models.Unit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&unit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("unit %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &unit, nil
}

// UpsertMany replaces units by ID, inserting the missing ones.
func (r *UnitRepository) UpsertMany(ctx context.Context, units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(units))
	for _, unit := range units {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": unit.ID}).
			SetReplacement(unit).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to upsert units: %w", err)
	}
	return nil
}
