package services

import (
	"context"
	"errors"
	"fmt"

	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

const maxOpportunities = 3

// Opportunity describes one pending load that fits an in-transit vehicle's
// remaining capacity.
type Opportunity struct {
	LoadID            string
	WeightKg          float64
	Pickup            string
	Dropoff           string
	AdditionalRevenue float64
	DetourEstimate    string
	ProfitImpact      string
}

// CapacityMatcher finds pending loads that fit the unused capacity of a
// vehicle already in transit. Read-only: matching never mutates fleet state.
//
// The matching rule is weight-only (load weight vs the trip's remaining
// capacity) with no route-proximity check — a coarse heuristic kept on
// purpose.
type CapacityMatcher struct {
	vehicles ports.VehicleRegistry
	trips    ports.TripStore
	loads    ports.LoadStore
	params   config.Params
}

func NewCapacityMatcher(vehicles ports.VehicleRegistry, trips ports.TripStore, loads ports.LoadStore, params config.Params) *CapacityMatcher {
	return &CapacityMatcher{
		vehicles: vehicles,
		trips:    trips,
		loads:    loads,
		params:   params,
	}
}

// FindOpportunities returns up to three pending loads, in listing order, that
// fit the vehicle's trip's remaining capacity. Every failed precondition
// (unknown vehicle, not in transit, no current trip, no spare capacity)
// yields an empty result, not an error.
func (m *CapacityMatcher) FindOpportunities(ctx context.Context, vehicleID string) ([]Opportunity, error) {
	vehicle, err := m.vehicles.Get(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return []Opportunity{}, nil
		}
		return nil, fmt.Errorf("find opportunities: %w", err)
	}

	if vehicle.Status != domain.VehicleInTransit || vehicle.CurrentTripID == "" {
		return []Opportunity{}, nil
	}

	trip, err := m.trips.Get(ctx, vehicle.CurrentTripID)
	if err != nil {
		if errors.Is(err, domain.ErrTripNotFound) {
			return []Opportunity{}, nil
		}
		return nil, fmt.Errorf("find opportunities: %w", err)
	}

	if trip.AvailableCapacityKg <= 0 {
		return []Opportunity{}, nil
	}

	pending, err := m.loads.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("find opportunities: list pending loads: %w", err)
	}

	opportunities := make([]Opportunity, 0, maxOpportunities)
	for _, load := range pending {
		if load.WeightKg > trip.AvailableCapacityKg {
			continue
		}

		revenue := load.WeightKg * m.params.OpportunisticRatePerKg
		opportunities = append(opportunities, Opportunity{
			LoadID:            load.ID,
			WeightKg:          load.WeightKg,
			Pickup:            load.Pickup,
			Dropoff:           load.Dropoff,
			AdditionalRevenue: revenue,
			DetourEstimate:    "Minimal detour (on route)",
			ProfitImpact:      fmt.Sprintf("+₹%.0f additional revenue", revenue),
		})

		if len(opportunities) == maxOpportunities {
			break
		}
	}

	return opportunities, nil
}
