// Command seed loads the demo fleet into MongoDB or PostgreSQL.
package main

import (
	"context"
	"flag"
	"time"

	"gps-monitor/internal/config"
	"gps-monitor/internal/repository"
	"gps-monitor/pkg/database"
	"gps-monitor/pkg/logger"

	log "github.com/sirupsen/logrus"
)

func main() {
	source := flag.String("source", "", "mongo or postgres (defaults to DATA_SOURCE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if *source != "" {
		cfg.DataSource = *source
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	units := repository.SeedUnits(time.Now())
	alerts := repository.SeedAlerts()

	var seeder repository.Seeder
	switch cfg.DataSource {
	case config.DataSourceMongo:
		db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MongoDB")
		}
		defer database.DisconnectMongo(db.Client())
		seeder = repository.NewMongoProvider(db)

	case config.DataSourcePostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		if err := database.MigratePostgres(ctx, pool); err != nil {
			log.WithError(err).Fatal("Failed to create schema")
		}
		seeder = repository.NewPostgresProvider(pool)

	default:
		log.WithField("data_source", cfg.DataSource).Fatal("Nothing to seed, choose mongo or postgres")
	}

	if err := seeder.Seed(ctx, units, alerts); err != nil {
		log.WithError(err).Fatal("Failed to seed data")
	}
	log.WithFields(log.Fields{
		"data_source": cfg.DataSource,
		"units":       len(units),
		"alerts":      len(alerts),
	}).Info("Seed data written")
}
