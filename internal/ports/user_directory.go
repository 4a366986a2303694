package ports

import (
	"context"

	"fleet-dispatch-service/internal/domain"
)

// Port: read-only access to chat users (managers, drivers, customers,
// partner businesses) keyed by phone number.
type UserDirectory interface {
	// Retrieve one user, or domain.ErrUserNotFound.
	Get(ctx context.Context, phone string) (*domain.User, error)

	// Retrieve all users with the given role.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
