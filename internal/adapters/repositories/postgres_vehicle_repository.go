package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-dispatch-service/internal/domain"
)

// Postgres-backed implementation of the VehicleRegistry port.
type PostgresVehicleRegistry struct{ DB *sql.DB }

func NewPostgresVehicleRegistry(db *sql.DB) *PostgresVehicleRegistry {
	return &PostgresVehicleRegistry{DB: db}
}

const vehicleColumns = `
	id, number, type, capacity_kg, current_load_kg, mileage_kmpl,
	condition, location, status, driver_phone, driver_name, fuel_percent,
	current_trip_id, last_trip_at, last_location_update
`

func (r *PostgresVehicleRegistry) List(ctx context.Context) ([]*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle registry: DB is nil")
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id;`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	return scanVehicles(rows)
}

// ListAvailable returns available vehicles, those located at the origin
// first. The sort key is computed in SQL so list order stays a storage
// concern.
func (r *PostgresVehicleRegistry) ListAvailable(ctx context.Context, originHint string) ([]*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle registry: DB is nil")
	}

	query := `
	SELECT ` + vehicleColumns + `
	FROM vehicles
	WHERE status = 'available'
	ORDER BY (CASE WHEN $1 <> '' AND LOWER(location) = LOWER($1) THEN 0 ELSE 1 END), id;
	`
	rows, err := r.DB.QueryContext(ctx, query, originHint)
	if err != nil {
		return nil, fmt.Errorf("list available vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	return scanVehicles(rows)
}

func (r *PostgresVehicleRegistry) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle registry: DB is nil")
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1;`
	v, err := scanVehicle(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return v, nil
}

func (r *PostgresVehicleRegistry) SetStatus(ctx context.Context, id string, status domain.VehicleStatus, location string) error {
	if r.DB == nil {
		return errors.New("vehicle registry: DB is nil")
	}

	query := `
	UPDATE vehicles
	SET status = $2,
	    location = CASE WHEN $3 <> '' THEN $3 ELSE location END
	WHERE id = $1;
	`
	res, err := r.DB.ExecContext(ctx, query, id, string(status), location)
	if err != nil {
		return fmt.Errorf("set vehicle %s status: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set vehicle %s status: rows affected: %w", id, err)
	}
	if n == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func (r *PostgresVehicleRegistry) Update(ctx context.Context, v *domain.Vehicle) error {
	if r.DB == nil {
		return errors.New("vehicle registry: DB is nil")
	}

	clone := *v
	clone.Normalize()

	query := `
	UPDATE vehicles
	SET number = $2, type = $3, capacity_kg = $4, current_load_kg = $5,
	    mileage_kmpl = $6, condition = $7, location = $8, status = $9,
	    driver_phone = $10, driver_name = $11, fuel_percent = $12,
	    current_trip_id = $13, last_trip_at = $14, last_location_update = $15
	WHERE id = $1;
	`
	res, err := r.DB.ExecContext(ctx, query,
		clone.ID, clone.Number, clone.Type, clone.CapacityKg, clone.CurrentLoadKg,
		clone.MileageKmpl, string(clone.Condition), clone.Location, string(clone.Status),
		clone.DriverPhone, clone.DriverName, clone.FuelPercent,
		clone.CurrentTripID, clone.LastTripAt, clone.LastLocationUpdate,
	)
	if err != nil {
		return fmt.Errorf("update vehicle %s: %w", clone.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vehicle %s: rows affected: %w", clone.ID, err)
	}
	if n == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var (
		v                    domain.Vehicle
		condition, status    string
		lastTripAt           sql.NullTime
		lastLocationUpdate   sql.NullTime
	)

	err := row.Scan(
		&v.ID, &v.Number, &v.Type, &v.CapacityKg, &v.CurrentLoadKg, &v.MileageKmpl,
		&condition, &v.Location, &status, &v.DriverPhone, &v.DriverName, &v.FuelPercent,
		&v.CurrentTripID, &lastTripAt, &lastLocationUpdate,
	)
	if err != nil {
		return nil, err
	}

	v.Condition = domain.Condition(condition)
	v.Status = domain.VehicleStatus(status)
	v.LastTripAt = nullTimePtr(lastTripAt)
	v.LastLocationUpdate = nullTimePtr(lastLocationUpdate)
	v.Normalize()
	return &v, nil
}

func scanVehicles(rows *sql.Rows) ([]*domain.Vehicle, error) {
	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vehicle row iteration: %w", err)
	}
	return vehicles, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
