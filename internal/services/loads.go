package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// ErrNoSuitableTrip signals that no active trip can carry an approved load.
var ErrNoSuitableTrip = errors.New("no suitable trip for load")

const (
	customerRatePerKg = 12
	businessRatePerKg = 15
)

// LoadBoard handles the load-request workflow around the core matcher:
// intake of customer/business requests and the manager's approve/reject
// decision that attaches an approved load to a running trip.
type LoadBoard struct {
	mu sync.Mutex

	loads  ports.LoadStore
	trips  ports.TripStore
	params config.Params
}

func NewLoadBoard(loads ports.LoadStore, trips ports.TripStore, params config.Params) *LoadBoard {
	return &LoadBoard{loads: loads, trips: trips, params: params}
}

// Submit records a new pending load request. Weight must be positive.
func (b *LoadBoard) Submit(ctx context.Context, weightKg float64, pickup, dropoff, phone string, requester domain.RequesterType) (*domain.Load, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("submit load: weight must be positive, got %v", weightKg)
	}
	if requester == "" {
		requester = domain.RequesterCustomer
	}

	rate := float64(customerRatePerKg)
	if requester == domain.RequesterBusiness {
		rate = businessRatePerKg
	}

	load, err := b.loads.Create(ctx, &domain.Load{
		WeightKg:       weightKg,
		Pickup:         pickup,
		Dropoff:        dropoff,
		RequesterPhone: phone,
		RequesterType:  requester,
		RatePerKg:      rate,
	})
	if err != nil {
		return nil, fmt.Errorf("submit load: %w", err)
	}
	return load, nil
}

// Approve attaches a pending load to a suitable active trip: the load's
// pickup or dropoff must appear in the trip's route string (the original's
// containment heuristic) and the trip must have capacity for the weight.
// The chosen trip gains the load's cities as waypoints and its remaining
// capacity is drawn down. Returns ErrNoSuitableTrip when nothing fits.
func (b *LoadBoard) Approve(ctx context.Context, loadID string) (*domain.Load, *domain.Trip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	load, err := b.loads.Get(ctx, loadID)
	if err != nil {
		return nil, nil, err
	}

	active, err := b.trips.ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("approve load %s: list active trips: %w", loadID, err)
	}

	trip := firstFittingTrip(load, active)
	if trip == nil {
		return nil, nil, ErrNoSuitableTrip
	}

	if !strings.EqualFold(load.Pickup, trip.Origin) {
		trip.Waypoints = appendCity(trip.Waypoints, load.Pickup)
		trip.Waypoints = appendCity(trip.Waypoints, load.Dropoff)
	}
	trip.AvailableCapacityKg -= load.WeightKg
	if err := b.trips.Update(ctx, trip); err != nil {
		return nil, nil, fmt.Errorf("approve load %s: update trip %s: %w", loadID, trip.ID, err)
	}

	if err := b.loads.SetStatus(ctx, loadID, domain.LoadApproved, trip.ID); err != nil {
		return nil, nil, fmt.Errorf("approve load %s: %w", loadID, err)
	}

	load.Status = domain.LoadApproved
	load.TripID = trip.ID
	return load, trip, nil
}

// Reject marks a load rejected.
func (b *LoadBoard) Reject(ctx context.Context, loadID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.loads.Get(ctx, loadID); err != nil {
		return err
	}
	if err := b.loads.SetStatus(ctx, loadID, domain.LoadRejected, ""); err != nil {
		return fmt.Errorf("reject load %s: %w", loadID, err)
	}
	return nil
}

// MatchTrip returns the first active trip that could carry the load right
// now, or nil when nothing fits. Read-only: approval is a separate step.
func (b *LoadBoard) MatchTrip(ctx context.Context, load *domain.Load) (*domain.Trip, error) {
	active, err := b.trips.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("match load %s: list active trips: %w", load.ID, err)
	}
	return firstFittingTrip(load, active), nil
}

func firstFittingTrip(load *domain.Load, active []*domain.Trip) *domain.Trip {
	for _, t := range active {
		if !onRoute(load, t) {
			continue
		}
		if t.AvailableCapacityKg < load.WeightKg {
			continue
		}
		return t
	}
	return nil
}

// onRoute checks the load's cities against the trip's route string. Pure
// substring containment, same coarseness as the rest of the city matching.
func onRoute(load *domain.Load, trip *domain.Trip) bool {
	route := strings.ToLower(trip.Origin + " " + trip.Destination)
	return strings.Contains(route, strings.ToLower(load.Pickup)) ||
		strings.Contains(route, strings.ToLower(load.Dropoff))
}

func appendCity(cities []string, city string) []string {
	for _, c := range cities {
		if strings.EqualFold(c, city) {
			return cities
		}
	}
	return append(cities, city)
}
