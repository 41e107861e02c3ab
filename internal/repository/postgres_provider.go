package repository

import (
	"context"
	"fmt"
	"time"

	"gps-monitor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listUnitsQuery = `
	SELECT u.id, u.unit_code, u.vehicle_type, u.latitude, u.longitude, u.address,
	       u.status, u.last_gps_active, COALESCE(u.driver, ''),
	       m.down_code, m.off_date, m.repair_type, m.repair_start_date,
	       m.assigned_technician, m.location
	FROM gps_units u
	LEFT JOIN unit_maintenance m ON m.unit_id = u.id
	ORDER BY u.unit_code`

const listAlertsQuery = `
	SELECT id, unit_id, alert_type, message, created_at, acknowledged, priority
	FROM unit_alerts
	ORDER BY created_at DESC`

const listUnacknowledgedAlertsQuery = `
	SELECT id, unit_id, alert_type, message, created_at, acknowledged, priority
	FROM unit_alerts
	WHERE NOT acknowledged
	ORDER BY created_at DESC`

// PostgresProvider reads units and alerts from PostgreSQL.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

func (p *PostgresProvider) ListUnits(ctx context.Context) ([]models.Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, listUnitsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}

	units, err := pgx.CollectRows(rows, scanUnit)
	if err != nil {
		return nil, fmt.Errorf("failed to scan units: %w", err)
	}
	return units, nil
}

func scanUnit(row pgx.CollectableRow) (models.Unit, error) {
	var (
		unit models.Unit
		m    struct {
			downCode, repairType, technician, location *string
			offDate, repairStart                       *time.Time
		}
	)
	err := row.Scan(
		&unit.ID, &unit.UnitCode, &unit.VehicleType,
		&unit.Location.Lat, &unit.Location.Lng, &unit.Location.Address,
		&unit.Status, &unit.LastGPSActive, &unit.Driver,
		&m.downCode, &m.offDate, &m.repairType, &m.repairStart, &m.technician, &m.location,
	)
	if err != nil {
		return unit, err
	}

	if m.downCode != nil {
		unit.MaintenanceInfo = &models.MaintenanceRecord{
			DownCode:           *m.downCode,
			OffDate:            deref(m.offDate),
			RepairType:         deref(m.repairType),
			RepairStartDate:    deref(m.repairStart),
			AssignedTechnician: deref(m.technician),
			Location:           deref(m.location),
		}
	}
	return unit, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func (p *PostgresProvider) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return p.queryAlerts(ctx, listAlertsQuery)
}

func (p *PostgresProvider) ListUnacknowledgedAlerts(ctx context.Context) ([]models.Alert, error) {
	return p.queryAlerts(ctx, listUnacknowledgedAlertsQuery)
}

func (p *PostgresProvider) queryAlerts(ctx context.Context, query string) ([]models.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}

	alerts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Alert, error) {
		var a models.Alert
		err := row.Scan(&a.ID, &a.UnitID, &a.Type, &a.Message, &a.Timestamp, &a.Acknowledged, &a.Priority)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan alerts: %w", err)
	}
	return alerts, nil
}

func (p *PostgresProvider) AcknowledgeAlert(ctx context.Context, alertID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := p.pool.Exec(ctx, `UPDATE unit_alerts SET acknowledged = TRUE WHERE id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert %s: %w", alertID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %s: %w", alertID, ErrNotFound)
	}
	return nil
}

// Seed upserts the dataset in one transaction.
func (p *PostgresProvider) Seed(ctx context.Context, units []models.Unit, alerts []models.Alert) error {
	if err := ValidateDataset(units, alerts); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, u := range units {
			batch.Queue(`
				INSERT INTO gps_units (id, unit_code, vehicle_type, latitude, longitude, address, status, last_gps_active, driver)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
				ON CONFLICT (id) DO UPDATE SET
					unit_code = EXCLUDED.unit_code, vehicle_type = EXCLUDED.vehicle_type,
					latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, address = EXCLUDED.address,
					status = EXCLUDED.status, last_gps_active = EXCLUDED.last_gps_active, driver = EXCLUDED.driver`,
				u.ID, u.UnitCode, u.VehicleType, u.Location.Lat, u.Location.Lng, u.Location.Address,
				string(u.Status), u.LastGPSActive, u.Driver)

			if m := u.MaintenanceInfo; m != nil {
				batch.Queue(`
					INSERT INTO unit_maintenance (unit_id, down_code, off_date, repair_type, repair_start_date, assigned_technician, location)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
					ON CONFLICT (unit_id) DO UPDATE SET
						down_code = EXCLUDED.down_code, off_date = EXCLUDED.off_date, repair_type = EXCLUDED.repair_type,
						repair_start_date = EXCLUDED.repair_start_date,
						assigned_technician = EXCLUDED.assigned_technician, location = EXCLUDED.location`,
					u.ID, m.DownCode, m.OffDate, m.RepairType, m.RepairStartDate, m.AssignedTechnician, m.Location)
			} else {
				batch.Queue(`DELETE FROM unit_maintenance WHERE unit_id = $1`, u.ID)
			}
		}
		for _, a := range alerts {
			batch.Queue(`
				INSERT INTO unit_alerts (id, unit_id, alert_type, message, created_at, acknowledged, priority)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO UPDATE SET
					unit_id = EXCLUDED.unit_id, alert_type = EXCLUDED.alert_type, message = EXCLUDED.message,
					created_at = EXCLUDED.created_at, acknowledged = EXCLUDED.acknowledged, priority = EXCLUDED.priority`,
				a.ID, a.UnitID, string(a.Type), a.Message, a.Timestamp, a.Acknowledged, string(a.Priority))
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to seed postgres: %w", err)
		}
		return nil
	})
}

func (p *PostgresProvider) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
