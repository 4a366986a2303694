package ports

import (
	"context"

	"fleet-dispatch-service/internal/domain"
)

// Port: a boundary for load request persistence.
type LoadStore interface {
	// Persist a load draft. The store assigns the next sequential id of the
	// form "LOAD" + zero-padded 3-digit ordinal, sets CreatedAt, and forces
	// status to pending. Returns the stored load.
	Create(ctx context.Context, l *domain.Load) (*domain.Load, error)

	// Retrieve one load, or domain.ErrLoadNotFound.
	Get(ctx context.Context, id string) (*domain.Load, error)

	// Retrieve loads with status pending, in insertion order.
	ListPending(ctx context.Context) ([]*domain.Load, error)

	// Update status and, when tripID is non-empty, the matched trip reference.
	SetStatus(ctx context.Context, id string, status domain.LoadStatus, tripID string) error
}
