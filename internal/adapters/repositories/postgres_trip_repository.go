package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-dispatch-service/internal/domain"
)

// Postgres-backed implementation of the TripStore port.
//
// Trip ids are "TRIP" + zero-padded sequence, monotonically assigned from a
// seq column (trips are never deleted, so MAX(seq)+1 is stable).
type PostgresTripStore struct{ DB *sql.DB }

func NewPostgresTripStore(db *sql.DB) *PostgresTripStore {
	return &PostgresTripStore{DB: db}
}

const tripColumns = `
	id, origin, destination, waypoints, truck_id, truck_number,
	driver_phone, driver_name, distance_km, eta_hours, fuel_cost, toll_cost,
	total_cost, expected_revenue, expected_profit, confidence, fuel_stops,
	load_percent, mileage, condition, fuel_percent, capacity_kg,
	current_load_kg, available_capacity_kg, status, current_location,
	progress_percent, actual_profit, created_at, last_updated, end_time
`

func (s *PostgresTripStore) Create(ctx context.Context, t *domain.Trip) (*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("trip store: DB is nil")
	}

	clone := *t
	clone.Status = domain.TripPending
	clone.CreatedAt = time.Now()

	waypoints, fuelStops, err := marshalTripJSON(&clone)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM trips;`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("create trip: next sequence: %w", err)
	}
	clone.ID = fmt.Sprintf("TRIP%03d", seq)

	query := `
	INSERT INTO trips (
		id, seq, origin, destination, waypoints, truck_id, truck_number,
		driver_phone, driver_name, distance_km, eta_hours, fuel_cost, toll_cost,
		total_cost, expected_revenue, expected_profit, confidence, fuel_stops,
		load_percent, mileage, condition, fuel_percent, capacity_kg,
		current_load_kg, available_capacity_kg, status, current_location,
		progress_percent, actual_profit, created_at, last_updated, end_time
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
		$31, $32
	);
	`
	_, err = tx.ExecContext(ctx, query,
		clone.ID, seq, clone.Origin, clone.Destination, waypoints,
		clone.TruckID, clone.TruckNumber, clone.DriverPhone, clone.DriverName,
		clone.DistanceKm, clone.ETAHours, clone.FuelCost, clone.TollCost,
		clone.TotalCost, clone.ExpectedRevenue, clone.ExpectedProfit,
		clone.Confidence, fuelStops, clone.LoadPercent, clone.Mileage,
		string(clone.Condition), clone.FuelPercent, clone.CapacityKg,
		clone.CurrentLoadKg, clone.AvailableCapacityKg, string(clone.Status),
		clone.CurrentLocation, clone.ProgressPercent, clone.ActualProfit,
		clone.CreatedAt, clone.LastUpdated, clone.EndTime,
	)
	if err != nil {
		return nil, fmt.Errorf("create trip %s: insert: %w", clone.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create trip %s: commit: %w", clone.ID, err)
	}

	return &clone, nil
}

func (s *PostgresTripStore) Get(ctx context.Context, id string) (*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("trip store: DB is nil")
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1;`
	t, err := scanTrip(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return t, nil
}

func (s *PostgresTripStore) ListActive(ctx context.Context) ([]*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("trip store: DB is nil")
	}

	query := `
	SELECT ` + tripColumns + `
	FROM trips
	WHERE status IN ('pending', 'accepted', 'in_progress')
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, 16)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list active trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active trips: row iteration: %w", err)
	}
	return trips, nil
}

func (s *PostgresTripStore) Update(ctx context.Context, t *domain.Trip) error {
	if s.DB == nil {
		return errors.New("trip store: DB is nil")
	}

	waypoints, fuelStops, err := marshalTripJSON(t)
	if err != nil {
		return fmt.Errorf("update trip %s: %w", t.ID, err)
	}

	query := `
	UPDATE trips
	SET waypoints = $2, status = $3, current_location = $4,
	    progress_percent = $5, actual_profit = $6, available_capacity_kg = $7,
	    fuel_stops = $8, last_updated = $9, end_time = $10
	WHERE id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query,
		t.ID, waypoints, string(t.Status), t.CurrentLocation,
		t.ProgressPercent, t.ActualProfit, t.AvailableCapacityKg,
		fuelStops, t.LastUpdated, t.EndTime,
	)
	if err != nil {
		return fmt.Errorf("update trip %s: %w", t.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update trip %s: rows affected: %w", t.ID, err)
	}
	if n == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}

func marshalTripJSON(t *domain.Trip) (waypoints, fuelStops []byte, err error) {
	w := t.Waypoints
	if w == nil {
		w = []string{}
	}
	waypoints, err = json.Marshal(w)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal waypoints: %w", err)
	}

	f := t.FuelStops
	if f == nil {
		f = []domain.FuelStop{}
	}
	fuelStops, err = json.Marshal(f)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal fuel stops: %w", err)
	}
	return waypoints, fuelStops, nil
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		t                    domain.Trip
		waypoints, fuelStops []byte
		condition, status    string
		actualProfit         sql.NullFloat64
		lastUpdated, endTime sql.NullTime
	)

	err := row.Scan(
		&t.ID, &t.Origin, &t.Destination, &waypoints, &t.TruckID, &t.TruckNumber,
		&t.DriverPhone, &t.DriverName, &t.DistanceKm, &t.ETAHours, &t.FuelCost,
		&t.TollCost, &t.TotalCost, &t.ExpectedRevenue, &t.ExpectedProfit,
		&t.Confidence, &fuelStops, &t.LoadPercent, &t.Mileage, &condition,
		&t.FuelPercent, &t.CapacityKg, &t.CurrentLoadKg, &t.AvailableCapacityKg,
		&status, &t.CurrentLocation, &t.ProgressPercent, &actualProfit,
		&t.CreatedAt, &lastUpdated, &endTime,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(waypoints, &t.Waypoints); err != nil {
		return nil, fmt.Errorf("unmarshal waypoints: %w", err)
	}
	if err := json.Unmarshal(fuelStops, &t.FuelStops); err != nil {
		return nil, fmt.Errorf("unmarshal fuel stops: %w", err)
	}

	t.Condition = domain.Condition(condition)
	t.Status = domain.TripStatus(status)
	if actualProfit.Valid {
		v := actualProfit.Float64
		t.ActualProfit = &v
	}
	t.LastUpdated = nullTimePtr(lastUpdated)
	t.EndTime = nullTimePtr(endTime)
	return &t, nil
}
