package ports

import (
	"context"

	"fleet-dispatch-service/internal/domain"
)

// Port: a boundary for reading and mutating fleet vehicle records.
//
// Implementations own the storage strategy; callers always receive and write
// back full snapshots with single-record update semantics.
type VehicleRegistry interface {
	// Retrieve every vehicle in the fleet.
	List(ctx context.Context) ([]*domain.Vehicle, error)

	// Retrieve vehicles with status "available". When originHint is non-empty
	// the result is pre-sorted so vehicles located at the origin come first;
	// relative order is otherwise preserved.
	ListAvailable(ctx context.Context, originHint string) ([]*domain.Vehicle, error)

	// Retrieve one vehicle, or domain.ErrVehicleNotFound.
	Get(ctx context.Context, id string) (*domain.Vehicle, error)

	// Update status and, when location is non-empty, location.
	SetStatus(ctx context.Context, id string, status domain.VehicleStatus, location string) error

	// Write back a full vehicle snapshot.
	Update(ctx context.Context, v *domain.Vehicle) error
}
