package ports

import (
	"context"

	"fleet-dispatch-service/internal/domain"
)

// Port: a boundary for trip record persistence.
type TripStore interface {
	// Persist a trip draft. The store assigns the next sequential id of the
	// form "TRIP" + zero-padded 3-digit ordinal, sets CreatedAt, and forces
	// status to pending. Returns the stored trip.
	Create(ctx context.Context, t *domain.Trip) (*domain.Trip, error)

	// Retrieve one trip, or domain.ErrTripNotFound.
	Get(ctx context.Context, id string) (*domain.Trip, error)

	// Retrieve trips with status in {pending, accepted, in_progress}.
	ListActive(ctx context.Context) ([]*domain.Trip, error)

	// Write back a full trip snapshot.
	Update(ctx context.Context, t *domain.Trip) error
}
