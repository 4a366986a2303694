package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"fleet-dispatch-service/internal/domain"
)

// Initialize the Postgres schema for fleet, trips, loads, and users.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id                   TEXT PRIMARY KEY,
		number               TEXT NOT NULL,
		type                 TEXT NOT NULL DEFAULT '',
		capacity_kg          DOUBLE PRECISION NOT NULL,
		current_load_kg      DOUBLE PRECISION NOT NULL DEFAULT 0,
		mileage_kmpl         DOUBLE PRECISION NOT NULL,
		condition            TEXT NOT NULL,
		location             TEXT NOT NULL,
		status               TEXT NOT NULL,
		driver_phone         TEXT NOT NULL DEFAULT '',
		driver_name          TEXT NOT NULL DEFAULT '',
		fuel_percent         DOUBLE PRECISION NOT NULL DEFAULT 100,
		current_trip_id      TEXT NOT NULL DEFAULT '',
		last_trip_at         TIMESTAMPTZ,
		last_location_update TIMESTAMPTZ
	);
	`

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id                    TEXT PRIMARY KEY,
		seq                   INTEGER NOT NULL,
		origin                TEXT NOT NULL,
		destination           TEXT NOT NULL,
		waypoints             JSONB NOT NULL DEFAULT '[]',
		truck_id              TEXT NOT NULL,
		truck_number          TEXT NOT NULL,
		driver_phone          TEXT NOT NULL,
		driver_name           TEXT NOT NULL,
		distance_km           DOUBLE PRECISION NOT NULL,
		eta_hours             DOUBLE PRECISION NOT NULL,
		fuel_cost             DOUBLE PRECISION NOT NULL,
		toll_cost             DOUBLE PRECISION NOT NULL,
		total_cost            DOUBLE PRECISION NOT NULL,
		expected_revenue      DOUBLE PRECISION NOT NULL,
		expected_profit       DOUBLE PRECISION NOT NULL,
		confidence            DOUBLE PRECISION NOT NULL,
		fuel_stops            JSONB NOT NULL DEFAULT '[]',
		load_percent          DOUBLE PRECISION NOT NULL,
		mileage               DOUBLE PRECISION NOT NULL,
		condition             TEXT NOT NULL,
		fuel_percent          DOUBLE PRECISION NOT NULL,
		capacity_kg           DOUBLE PRECISION NOT NULL,
		current_load_kg       DOUBLE PRECISION NOT NULL,
		available_capacity_kg DOUBLE PRECISION NOT NULL,
		status                TEXT NOT NULL,
		current_location      TEXT NOT NULL DEFAULT '',
		progress_percent      DOUBLE PRECISION NOT NULL DEFAULT 0,
		actual_profit         DOUBLE PRECISION,
		created_at            TIMESTAMPTZ NOT NULL,
		last_updated          TIMESTAMPTZ,
		end_time              TIMESTAMPTZ
	);
	`

	createLoadsQuery := `
	CREATE TABLE IF NOT EXISTS loads (
		id              TEXT PRIMARY KEY,
		seq             INTEGER NOT NULL,
		weight_kg       DOUBLE PRECISION NOT NULL,
		pickup          TEXT NOT NULL,
		dropoff         TEXT NOT NULL,
		requester_phone TEXT NOT NULL,
		requester_type  TEXT NOT NULL DEFAULT 'customer',
		rate_per_kg     DOUBLE PRECISION NOT NULL DEFAULT 0,
		status          TEXT NOT NULL,
		trip_id         TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL
	);
	`

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		phone    TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		role     TEXT NOT NULL,
		company  TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT ''
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status);
	`

	statements := []string{
		createVehiclesQuery,
		createTripsQuery,
		createLoadsQuery,
		createUsersQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VehicleSeed struct {
	ID            string  `json:"id"`
	Number        string  `json:"number"`
	Type          string  `json:"type"`
	CapacityKg    float64 `json:"capacity_kg"`
	CurrentLoadKg float64 `json:"current_load_kg"`
	MileageKmpl   float64 `json:"mileage_kmpl"`
	Condition     string  `json:"condition"`
	Location      string  `json:"location"`
	Status        string  `json:"status"`
	DriverPhone   string  `json:"driver_phone"`
	DriverName    string  `json:"driver_name"`
	FuelPercent   float64 `json:"fuel_percent"`
}

// Populate the vehicles table from a JSON file. Missing fuel levels default
// to a full tank.
func SeedFleetFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed fleet: read %q: %w", jsonPath, err)
	}

	var data []VehicleSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed fleet: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("seed fleet: empty vehicle id at index %d", i)
		}
		if item.CapacityKg <= 0 {
			return fmt.Errorf("seed fleet: vehicle %s: capacity must be positive", item.ID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO vehicles (
		id, number, type, capacity_kg, current_load_kg, mileage_kmpl,
		condition, location, status, driver_phone, driver_name, fuel_percent
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		number = EXCLUDED.number,
		location = EXCLUDED.location,
		status = EXCLUDED.status;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed fleet: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range data {
		status := v.Status
		if status == "" {
			status = string(domain.VehicleAvailable)
		}
		fuel := v.FuelPercent
		if fuel == 0 {
			fuel = 100
		}

		_, err := stmt.Exec(
			v.ID, v.Number, v.Type, v.CapacityKg, v.CurrentLoadKg, v.MileageKmpl,
			v.Condition, v.Location, status, v.DriverPhone, v.DriverName, fuel,
		)
		if err != nil {
			return fmt.Errorf("seed fleet: insert vehicle %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}

type UserSeed struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

// Populate the users table from a JSON file.
func SeedUsersFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed users: read %q: %w", jsonPath, err)
	}

	var data []UserSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed users: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed users: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO users (phone, name, role, company, location)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (phone) DO UPDATE SET
		name = EXCLUDED.name,
		role = EXCLUDED.role;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed users: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range data {
		if strings.TrimSpace(u.Phone) == "" {
			return fmt.Errorf("seed users: user %q has empty phone", u.Name)
		}
		if _, err := stmt.Exec(u.Phone, u.Name, u.Role, u.Company, u.Location); err != nil {
			return fmt.Errorf("seed users: insert user %s: %w", u.Phone, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed users: commit tx: %w", err)
	}

	return nil
}

// ResetFleet returns every vehicle to available with no trip and no cargo.
// Locations, drivers, and fuel levels are left as they are.
func ResetFleet(db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errors.New("reset fleet: DB is nil")
	}

	res, err := db.Exec(`
	UPDATE vehicles
	SET status = 'available',
	    current_trip_id = '',
	    current_load_kg = 0;
	`)
	if err != nil {
		return 0, fmt.Errorf("reset fleet: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset fleet: rows affected: %w", err)
	}
	return n, nil
}
