package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// ErrNotAuthorized signals a driver action on a trip that belongs to a
// different driver's phone.
var ErrNotAuthorized = errors.New("not authorized")

// ErrInvalidTransition signals a lifecycle action against a trip whose
// current status does not permit it.
var ErrInvalidTransition = errors.New("invalid trip transition")

const (
	progressStepPercent = 10
	progressCapPercent  = 95
	profitVarianceRate  = 0.95
)

// Lifecycle owns the trip state machine
//
//	pending -> accepted -> in_progress -> completed
//
// and the companion vehicle-status transitions. Transitions are strictly
// forward; Complete is not idempotent (a second call re-applies the fuel
// deduction and load reset) — call sites that need exactly-once completion
// must check status first.
type Lifecycle struct {
	mu sync.Mutex

	vehicles ports.VehicleRegistry
	trips    ports.TripStore
	params   config.Params
	now      func() time.Time
}

func NewLifecycle(vehicles ports.VehicleRegistry, trips ports.TripStore, params config.Params) *Lifecycle {
	return &Lifecycle{
		vehicles: vehicles,
		trips:    trips,
		params:   params,
		now:      time.Now,
	}
}

// Accept records the assigned driver taking the trip. The trip moves to
// accepted and its vehicle to in_transit. Fails with ErrNotAuthorized when
// driverPhone does not match the trip's driver.
func (l *Lifecycle) Accept(ctx context.Context, tripID, driverPhone string) (*domain.Trip, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trip, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.DriverPhone != driverPhone {
		return nil, ErrNotAuthorized
	}

	if trip.Status != domain.TripPending {
		return nil, fmt.Errorf("accept trip %s from status %q: %w", tripID, trip.Status, ErrInvalidTransition)
	}

	trip.Status = domain.TripAccepted
	l.touch(trip)
	if err := l.trips.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("accept trip %s: %w", tripID, err)
	}

	if err := l.vehicles.SetStatus(ctx, trip.TruckID, domain.VehicleInTransit, ""); err != nil {
		return nil, fmt.Errorf("accept trip %s: mark vehicle in transit: %w", tripID, err)
	}

	return trip, nil
}

// Start moves an accepted trip to in_progress at the given location and
// stamps the vehicle's location.
func (l *Lifecycle) Start(ctx context.Context, tripID, location string) (*domain.Trip, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trip, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status == domain.TripInProgress || trip.Status == domain.TripCompleted {
		return nil, fmt.Errorf("start trip %s from status %q: %w", tripID, trip.Status, ErrInvalidTransition)
	}

	trip.Status = domain.TripInProgress
	trip.CurrentLocation = location
	l.touch(trip)
	if err := l.trips.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("start trip %s: %w", tripID, err)
	}

	vehicle, err := l.vehicles.Get(ctx, trip.TruckID)
	if err != nil {
		return nil, fmt.Errorf("start trip %s: %w", tripID, err)
	}

	now := l.now()
	vehicle.Location = location
	vehicle.LastLocationUpdate = &now
	if err := l.vehicles.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("start trip %s: update vehicle location: %w", tripID, err)
	}

	return trip, nil
}

// UpdateLocation records an en-route position report. Progress advances by a
// fixed step and is capped below 100; only Complete reaches exactly 100.
// Status is not checked: a report against a non-running trip still advances
// progress, matching the original behavior.
func (l *Lifecycle) UpdateLocation(ctx context.Context, tripID, location string) (*domain.Trip, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trip, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	trip.ProgressPercent += progressStepPercent
	if trip.ProgressPercent > progressCapPercent {
		trip.ProgressPercent = progressCapPercent
	}
	trip.CurrentLocation = location
	l.touch(trip)

	if err := l.trips.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("update trip %s location: %w", tripID, err)
	}
	return trip, nil
}

// Complete finishes the trip at the given location: progress reaches exactly
// 100, actual profit is booked at the fixed variance rate, and the vehicle is
// released — available again, emptied, trip reference cleared, and fuel
// reduced by the estimated consumption for the trip's distance (floored at
// zero).
func (l *Lifecycle) Complete(ctx context.Context, tripID, location string) (*domain.Trip, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trip, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	actual := trip.ExpectedProfit * profitVarianceRate

	trip.Status = domain.TripCompleted
	trip.CurrentLocation = location
	trip.ProgressPercent = 100
	trip.ActualProfit = &actual
	trip.EndTime = &now
	l.touch(trip)
	if err := l.trips.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("complete trip %s: %w", tripID, err)
	}

	vehicle, err := l.vehicles.Get(ctx, trip.TruckID)
	if err != nil {
		return nil, fmt.Errorf("complete trip %s: %w", tripID, err)
	}

	if vehicle.MileageKmpl > 0 {
		consumed := trip.DistanceKm / vehicle.MileageKmpl * 100 / l.params.TankCapacityL
		vehicle.FuelPercent -= consumed
		if vehicle.FuelPercent < 0 {
			vehicle.FuelPercent = 0
		}
	}

	vehicle.Status = domain.VehicleAvailable
	vehicle.Location = location
	vehicle.CurrentLoadKg = 0
	vehicle.CurrentTripID = ""
	vehicle.LastLocationUpdate = &now
	if err := l.vehicles.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("complete trip %s: release vehicle: %w", tripID, err)
	}

	return trip, nil
}

// ActiveTripForDriver finds the driver's current active trip, or
// domain.ErrTripNotFound when none is assigned.
func (l *Lifecycle) ActiveTripForDriver(ctx context.Context, driverPhone string) (*domain.Trip, error) {
	trips, err := l.trips.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("active trip for driver: %w", err)
	}

	for _, t := range trips {
		if t.DriverPhone == driverPhone {
			return t, nil
		}
	}
	return nil, domain.ErrTripNotFound
}

func (l *Lifecycle) touch(t *domain.Trip) {
	now := l.now()
	t.LastUpdated = &now
}
