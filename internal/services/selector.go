package services

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
)

// ErrNoVehicleAvailable signals the expected "no trucks available" business
// outcome, not a system failure.
var ErrNoVehicleAvailable = errors.New("no vehicle available")

// Selector ranks available vehicles for a requested trip and picks exactly
// one, balancing quality (condition, fuel, mileage, proximity) against
// fairness across drivers.
//
// The last-assigned driver token is instance state guarded by the selector's
// mutex, so Select forms a critical section; callers share one Selector per
// process to get rotation across requests.
type Selector struct {
	mu         sync.Mutex
	lastDriver string

	params config.Params
	now    func() time.Time
}

func NewSelector(params config.Params) *Selector {
	return &Selector{params: params, now: time.Now}
}

// Select picks one vehicle for the requested haul, or returns
// ErrNoVehicleAvailable. vehicles is the available pool (pre-sorted by the
// registry with origin-located vehicles first); activeTrips is the current
// pending/accepted/in_progress set used to derive per-driver workload.
//
// Two-phase algorithm: a fairness rotation pass proposes the least-loaded
// vehicle outside the last-assigned driver's partition, which is accepted if
// its quality score clears the gate. Otherwise every vehicle is re-scored
// with a workload penalty and an idle-vehicle bonus, and the best wins.
// The gate is intentionally applied only to the rotation candidate, and the
// penalty only in the fallback path.
func (s *Selector) Select(
	origin string,
	destination string,
	distanceKm float64,
	vehicles []*domain.Vehicle,
	activeTrips []*domain.Trip,
) (*domain.Vehicle, error) {
	if len(vehicles) == 0 {
		return nil, ErrNoVehicleAvailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	workload := driverWorkload(activeTrips)

	candidate := s.rotationCandidate(vehicles, workload)
	if s.qualityScore(candidate, origin, distanceKm) >= s.params.QualityGate {
		s.lastDriver = candidate.DriverPhone
		return candidate, nil
	}

	best := s.fallbackCandidate(vehicles, workload, origin, distanceKm)
	s.lastDriver = best.DriverPhone
	return best, nil
}

// LastDriver returns the driver phone of the most recent selection.
func (s *Selector) LastDriver() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDriver
}

// driverWorkload counts active trips per driver phone. Drivers with no
// recorded phone contribute nothing and are never penalized.
func driverWorkload(activeTrips []*domain.Trip) map[string]int {
	workload := make(map[string]int, len(activeTrips))
	for _, t := range activeTrips {
		if t.DriverPhone == "" {
			continue
		}
		workload[t.DriverPhone]++
	}
	return workload
}

// rotationCandidate prefers vehicles outside the last-assigned driver's
// partition and, within the chosen partition, the driver with the lowest
// workload. Ties keep the original (proximity-sorted) list order.
func (s *Selector) rotationCandidate(vehicles []*domain.Vehicle, workload map[string]int) *domain.Vehicle {
	var rotated, held []*domain.Vehicle
	for _, v := range vehicles {
		if s.lastDriver != "" && v.DriverPhone == s.lastDriver {
			held = append(held, v)
			continue
		}
		rotated = append(rotated, v)
	}

	pool := rotated
	if len(pool) == 0 {
		pool = held
	}

	best := pool[0]
	for _, v := range pool[1:] {
		if workload[v.DriverPhone] < workload[best.DriverPhone] {
			best = v
		}
	}
	return best
}

// fallbackCandidate scores every vehicle: quality, minus a workload penalty,
// plus a bonus for vehicles idle longer than the recency window. Ties keep
// the first-encountered vehicle.
func (s *Selector) fallbackCandidate(
	vehicles []*domain.Vehicle,
	workload map[string]int,
	origin string,
	distanceKm float64,
) *domain.Vehicle {
	now := s.now()

	best := vehicles[0]
	bestScore := math.Inf(-1)
	for _, v := range vehicles {
		score := s.qualityScore(v, origin, distanceKm)

		if v.DriverPhone != "" {
			penalty := float64(workload[v.DriverPhone]) * s.params.FairnessPenaltyPerTrip
			if penalty > s.params.FairnessPenaltyCap {
				penalty = s.params.FairnessPenaltyCap
			}
			score -= penalty
		}

		if v.LastTripAt != nil && now.Sub(*v.LastTripAt) > s.params.RecencyWindow {
			score += s.params.RecencyBonus
		}

		if score > bestScore {
			best = v
			bestScore = score
		}
	}
	return best
}

// qualityScore rates a vehicle for the requested haul on a 0..1 scale.
//
//	location  +0.4 exact origin match, +0.3 shared known hub
//	condition +0.2 Excellent, +0.15 Good, +0.1 otherwise
//	fuel      fuel% / 100 * 0.1
//	mileage   kmpl/10 * 0.2 for hauls over 500 km, * 0.1 otherwise
//	capacity  min(0.1, capacity/200000) for hauls over 800 km
func (s *Selector) qualityScore(v *domain.Vehicle, origin string, distanceKm float64) float64 {
	score := 0.0

	switch {
	case strings.EqualFold(strings.TrimSpace(v.Location), strings.TrimSpace(origin)):
		score += 0.4
	case sharesKnownHub(v.Location, origin):
		score += 0.3
	}

	switch v.Condition {
	case domain.ConditionExcellent:
		score += 0.2
	case domain.ConditionGood:
		score += 0.15
	default:
		score += 0.1
	}

	score += v.FuelPercent / 100 * 0.1

	if distanceKm > 500 {
		score += v.MileageKmpl / 10 * 0.2
	} else {
		score += v.MileageKmpl / 10 * 0.1
	}

	if distanceKm > 800 {
		score += math.Min(0.1, v.CapacityKg/200000)
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
