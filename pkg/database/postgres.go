package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PostgresSchema creates the tables read by the Postgres provider.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS gps_units (
	id              TEXT PRIMARY KEY,
	unit_code       TEXT NOT NULL UNIQUE,
	vehicle_type    TEXT NOT NULL,
	latitude        DOUBLE PRECISION NOT NULL,
	longitude       DOUBLE PRECISION NOT NULL,
	address         TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL CHECK (status IN ('active', 'offline', 'maintenance', 'inactive')),
	last_gps_active TIMESTAMPTZ NOT NULL,
	driver          TEXT
);

CREATE TABLE IF NOT EXISTS unit_maintenance (
	unit_id             TEXT PRIMARY KEY REFERENCES gps_units(id) ON DELETE CASCADE,
	down_code           TEXT NOT NULL,
	off_date            TIMESTAMPTZ NOT NULL,
	repair_type         TEXT NOT NULL,
	repair_start_date   TIMESTAMPTZ NOT NULL,
	assigned_technician TEXT NOT NULL,
	location            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS unit_alerts (
	id           TEXT PRIMARY KEY,
	unit_id      TEXT NOT NULL REFERENCES gps_units(id) ON DELETE CASCADE,
	alert_type   TEXT NOT NULL,
	message      TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
	priority     TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'critical'))
);

CREATE INDEX IF NOT EXISTS idx_unit_alerts_unit_id ON unit_alerts (unit_id);
CREATE INDEX IF NOT EXISTS idx_unit_alerts_created_at ON unit_alerts (created_at DESC);
`

// ConnectPostgres opens a pgx pool and pings it.
func ConnectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	log.WithField("database", cfg.ConnConfig.Database).Info("connected to PostgreSQL")
	return pool, nil
}

// MigratePostgres applies PostgresSchema. Every statement is idempotent.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
