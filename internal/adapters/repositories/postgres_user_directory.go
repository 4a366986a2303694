package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-dispatch-service/internal/domain"
)

// Postgres-backed implementation of the UserDirectory port.
type PostgresUserDirectory struct{ DB *sql.DB }

func NewPostgresUserDirectory(db *sql.DB) *PostgresUserDirectory {
	return &PostgresUserDirectory{DB: db}
}

func (d *PostgresUserDirectory) Get(ctx context.Context, phone string) (*domain.User, error) {
	if d.DB == nil {
		return nil, errors.New("user directory: DB is nil")
	}

	query := `SELECT phone, name, role, company, location FROM users WHERE phone = $1;`
	u, err := scanUser(d.DB.QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", phone, err)
	}
	return u, nil
}

func (d *PostgresUserDirectory) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if d.DB == nil {
		return nil, errors.New("user directory: DB is nil")
	}

	query := `SELECT phone, name, role, company, location FROM users WHERE role = $1 ORDER BY phone;`
	rows, err := d.DB.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role %s: query users table: %w", role, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, 8)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users by role %s: scan row: %w", role, err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users by role %s: row iteration: %w", role, err)
	}
	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.Phone, &u.Name, &role, &u.Company, &u.Location); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
