package ports

import (
	"context"

	"fleet-dispatch-service/internal/domain"
)

// Road distance and travel duration between two coordinates.
//
// DurationHours is carried for completeness but the planning core derives its
// own ETA from distance and a configured average speed; see the economics
// calculator.
type RouteResult struct {
	DistanceKm    float64
	DurationHours float64
}

// Contract for computing a drivable route between two points.
//
// A failed computation is terminal for the caller: trip planning aborts and
// reports the error. Retry policy, if any, lives inside the implementation.
type RouteProvider interface {
	ComputeRoute(ctx context.Context, origin, destination domain.Coordinates) (RouteResult, error)
}

// Contract for resolving a city name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, city string) (domain.Coordinates, error)
}
