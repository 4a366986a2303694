package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-dispatch-service/internal/domain"
)

// Postgres-backed implementation of the LoadStore port.
type PostgresLoadStore struct{ DB *sql.DB }

func NewPostgresLoadStore(db *sql.DB) *PostgresLoadStore {
	return &PostgresLoadStore{DB: db}
}

const loadColumns = `
	id, weight_kg, pickup, dropoff, requester_phone, requester_type,
	rate_per_kg, status, trip_id, created_at
`

func (s *PostgresLoadStore) Create(ctx context.Context, l *domain.Load) (*domain.Load, error) {
	if s.DB == nil {
		return nil, errors.New("load store: DB is nil")
	}

	clone := *l
	clone.Status = domain.LoadPending
	clone.CreatedAt = time.Now()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create load: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM loads;`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("create load: next sequence: %w", err)
	}
	clone.ID = fmt.Sprintf("LOAD%03d", seq)

	query := `
	INSERT INTO loads (
		id, seq, weight_kg, pickup, dropoff, requester_phone, requester_type,
		rate_per_kg, status, trip_id, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.ExecContext(ctx, query,
		clone.ID, seq, clone.WeightKg, clone.Pickup, clone.Dropoff,
		clone.RequesterPhone, string(clone.RequesterType), clone.RatePerKg,
		string(clone.Status), clone.TripID, clone.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create load %s: insert: %w", clone.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create load %s: commit: %w", clone.ID, err)
	}
	return &clone, nil
}

func (s *PostgresLoadStore) Get(ctx context.Context, id string) (*domain.Load, error) {
	if s.DB == nil {
		return nil, errors.New("load store: DB is nil")
	}

	query := `SELECT ` + loadColumns + ` FROM loads WHERE id = $1;`
	l, err := scanLoad(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLoadNotFound
		}
		return nil, fmt.Errorf("get load %s: %w", id, err)
	}
	return l, nil
}

func (s *PostgresLoadStore) ListPending(ctx context.Context) ([]*domain.Load, error) {
	if s.DB == nil {
		return nil, errors.New("load store: DB is nil")
	}

	query := `SELECT ` + loadColumns + ` FROM loads WHERE status = 'pending' ORDER BY seq;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending loads: query loads table: %w", err)
	}
	defer rows.Close()

	loads := make([]*domain.Load, 0, 8)
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("list pending loads: scan row: %w", err)
		}
		loads = append(loads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending loads: row iteration: %w", err)
	}
	return loads, nil
}

func (s *PostgresLoadStore) SetStatus(ctx context.Context, id string, status domain.LoadStatus, tripID string) error {
	if s.DB == nil {
		return errors.New("load store: DB is nil")
	}

	query := `
	UPDATE loads
	SET status = $2,
	    trip_id = CASE WHEN $3 <> '' THEN $3 ELSE trip_id END
	WHERE id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query, id, string(status), tripID)
	if err != nil {
		return fmt.Errorf("set load %s status: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set load %s status: rows affected: %w", id, err)
	}
	if n == 0 {
		return domain.ErrLoadNotFound
	}
	return nil
}

func scanLoad(row rowScanner) (*domain.Load, error) {
	var (
		l                     domain.Load
		requesterType, status string
	)
	err := row.Scan(
		&l.ID, &l.WeightKg, &l.Pickup, &l.Dropoff, &l.RequesterPhone,
		&requesterType, &l.RatePerKg, &status, &l.TripID, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.RequesterType = domain.RequesterType(requesterType)
	l.Status = domain.LoadStatus(status)
	return &l, nil
}
