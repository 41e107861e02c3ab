package database

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	UnitsCollection  = "units"
	AlertsCollection = "alerts"
)

// ConnectMongo connects, pings and ensures indexes. The database name comes
// from the URI path, or defaultDB when the URI has none.
func ConnectMongo(ctx context.Context, mongoURI, defaultDB string) (*mongo.Database, error) {
	cs, err := connstring.ParseAndValidate(mongoURI)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := cs.Database
	if dbName == "" {
		dbName = defaultDB
	}
	db := client.Database(dbName)
	log.WithField("database", dbName).Info("connected to MongoDB")

	if err := createIndexes(ctx, db); err != nil {
		log.WithError(err).Warn("failed to create MongoDB indexes")
	}

	return db, nil
}

// createIndexes creates the indexes the dashboard queries rely on.
func createIndexes(ctx context.Context, db *mongo.Database) error {
	unitIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unit_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := db.Collection(UnitsCollection).Indexes().CreateMany(ctx, unitIndexes); err != nil {
		return fmt.Errorf("units indexes: %w", err)
	}

	alertIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "unit_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "acknowledged", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	if _, err := db.Collection(AlertsCollection).Indexes().CreateMany(ctx, alertIndexes); err != nil {
		return fmt.Errorf("alerts indexes: %w", err)
	}

	return nil
}

// DisconnectMongo closes the MongoDB connection
func DisconnectMongo(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	log.Info("disconnected from MongoDB")
	return nil
}

// MongoHealth pings the database server.
func MongoHealth(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.Client().Ping(ctx, nil)
}
