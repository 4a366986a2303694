package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// ErrRouteUnavailable wraps route/geocode provider failures that abort trip
// planning. No partial trip is persisted and no vehicle is mutated when
// planning fails with it.
var ErrRouteUnavailable = errors.New("route calculation failed")

// Planner converts a dispatch request into a fully priced, persisted trip:
// geocode both cities, compute the route, select a vehicle, derive trip
// economics, store the trip, and mark the vehicle assigned.
//
// A single mutex serializes planning passes so two concurrent requests cannot
// both claim the same vehicle; the underlying stores provide no transaction
// isolation of their own.
type Planner struct {
	mu sync.Mutex

	vehicles ports.VehicleRegistry
	trips    ports.TripStore
	geocoder ports.Geocoder
	routes   ports.RouteProvider
	selector *Selector
	params   config.Params
	now      func() time.Time
}

func NewPlanner(
	vehicles ports.VehicleRegistry,
	trips ports.TripStore,
	geocoder ports.Geocoder,
	routes ports.RouteProvider,
	selector *Selector,
	params config.Params,
) *Planner {
	return &Planner{
		vehicles: vehicles,
		trips:    trips,
		geocoder: geocoder,
		routes:   routes,
		selector: selector,
		params:   params,
		now:      time.Now,
	}
}

// PlanTrip plans and persists one haul from origin to destination.
//
// Returns ErrRouteUnavailable when geocoding or routing fails, and
// ErrNoVehicleAvailable when no vehicle qualifies; both leave fleet state
// untouched.
func (p *Planner) PlanTrip(ctx context.Context, origin, destination string, waypoints []string) (*domain.Trip, error) {
	originCoords, err := p.geocoder.Resolve(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("%w: geocode %q: %v", ErrRouteUnavailable, origin, err)
	}

	destCoords, err := p.geocoder.Resolve(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: geocode %q: %v", ErrRouteUnavailable, destination, err)
	}

	route, err := p.routes.ComputeRoute(ctx, originCoords, destCoords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	available, err := p.vehicles.ListAvailable(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("plan trip: list available vehicles: %w", err)
	}

	active, err := p.trips.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan trip: list active trips: %w", err)
	}

	vehicle, err := p.selector.Select(origin, destination, route.DistanceKm, available, active)
	if err != nil {
		return nil, err
	}

	draft := p.buildTrip(origin, destination, waypoints, route.DistanceKm, vehicle)

	trip, err := p.trips.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("plan trip: create trip: %w", err)
	}

	now := p.now()
	vehicle.Status = domain.VehicleAssigned
	vehicle.CurrentTripID = trip.ID
	vehicle.LastTripAt = &now
	if err := p.vehicles.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("plan trip: assign vehicle %s: %w", vehicle.ID, err)
	}

	return trip, nil
}

// buildTrip derives the full trip economics for a selected vehicle.
//
// ETA is recomputed from distance and the configured average speed, never
// from the route provider's duration estimate; this keeps trip output
// deterministic and provider-independent.
func (p *Planner) buildTrip(origin, destination string, waypoints []string, distanceKm float64, v *domain.Vehicle) *domain.Trip {
	etaHours := distanceKm / p.params.AvgSpeedKmph
	fuelCost := distanceKm / v.MileageKmpl * p.params.FuelPricePerLiter
	tollCost := distanceKm * p.params.TollRatePerKm
	revenue := distanceKm * p.params.RevenueRatePerKm
	totalCost := fuelCost + tollCost
	profit := revenue - totalCost

	loadPercent := 0.0
	if v.CapacityKg > 0 {
		loadPercent = v.CurrentLoadKg / v.CapacityKg * 100
	}

	fuelOK := v.FuelPercent > p.params.FuelOKPercent
	confidence := p.confidence(loadPercent, fuelOK)

	if waypoints == nil {
		waypoints = []string{}
	}

	return &domain.Trip{
		Origin:      origin,
		Destination: destination,
		Waypoints:   waypoints,

		TruckID:     v.ID,
		TruckNumber: v.Number,
		DriverPhone: v.DriverPhone,
		DriverName:  v.DriverName,

		DistanceKm:      round1(distanceKm),
		ETAHours:        round1(etaHours),
		FuelCost:        math.Round(fuelCost),
		TollCost:        math.Round(tollCost),
		TotalCost:       math.Round(totalCost),
		ExpectedRevenue: math.Round(revenue),
		ExpectedProfit:  math.Round(profit),
		Confidence:      confidence,
		FuelStops:       PlanFuelStops(origin, destination, distanceKm, v.MileageKmpl, p.params.TankCapacityL),
		LoadPercent:     math.Round(loadPercent),

		Mileage:             v.MileageKmpl,
		Condition:           v.Condition,
		FuelPercent:         v.FuelPercent,
		CapacityKg:          v.CapacityKg,
		CurrentLoadKg:       v.CurrentLoadKg,
		AvailableCapacityKg: v.AvailableCapacityKg(),

		Status:          domain.TripPending,
		CurrentLocation: origin,
	}
}

// confidence scores how favorable the planned trip's conditions are, 0..1.
// Starts at 1.0, penalized multiplicatively for a heavily loaded vehicle and
// a low tank, then scaled by the configured traffic score.
func (p *Planner) confidence(loadPercent float64, fuelOK bool) float64 {
	score := 1.0
	if loadPercent > p.params.HighLoadPercent {
		score *= p.params.LoadPenaltyFactor
	}
	if !fuelOK {
		score *= p.params.FuelPenaltyFactor
	}
	score *= p.params.TrafficScore
	return round2(score)
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
