package services

import (
	"fmt"
	"strings"

	"fleet-dispatch-service/internal/domain"
)

// Major cities along common corridors, keyed by lowercase (origin,
// destination). Lookups check both directions. Static by design: the fuel
// plan is deterministic and needs no live fuel-station data.
var routeCities = map[[2]string][]string{
	{"mumbai", "delhi"}:      {"Surat", "Vadodara", "Udaipur", "Jaipur"},
	{"mumbai", "bangalore"}:  {"Pune", "Kolhapur", "Belgaum"},
	{"bangalore", "chennai"}: {"Vellore", "Kanchipuram"},
	{"pune", "nagpur"}:       {"Aurangabad", "Jalna"},
	{"delhi", "chandigarh"}:  {"Panipat", "Ambala"},
	{"delhi", "kolkata"}:     {"Kanpur", "Varanasi", "Patna"},
	{"hyderabad", "bangalore"}: {"Kurnool", "Anantapur"},
	{"ahmedabad", "mumbai"}:  {"Vapi", "Valsad", "Surat"},
	{"mumbai", "goa"}:        {"Panvel", "Kolhapur", "Belgaum"},
	{"chennai", "hyderabad"}: {"Vijayawada", "Nellore"},
}

// knownRouteCities returns the waypoint cities for a corridor, checking the
// reverse direction as well (reversed in travel order for the return leg).
func knownRouteCities(origin, destination string) []string {
	o := strings.ToLower(strings.TrimSpace(origin))
	d := strings.ToLower(strings.TrimSpace(destination))

	if cities, ok := routeCities[[2]string{o, d}]; ok {
		return cities
	}
	if cities, ok := routeCities[[2]string{d, o}]; ok {
		reversed := make([]string, len(cities))
		for i, c := range cities {
			reversed[len(cities)-1-i] = c
		}
		return reversed
	}
	return nil
}

// PlanFuelStops produces a deterministic refueling plan for a haul.
//
// Range is derived from a fixed tank capacity and the vehicle's mileage;
// stops target refueling at 60% of range. Short hauls and unknown corridors
// get a single generic mid-route stop. Known corridors place stops at evenly
// spaced waypoint cities; when the corridor has fewer cities than stops
// needed, generic numbered stops are emitted instead.
func PlanFuelStops(origin, destination string, distanceKm, mileageKmpl, tankCapacityL float64) []domain.FuelStop {
	cities := knownRouteCities(origin, destination)

	if len(cities) == 0 || distanceKm <= 300 {
		return []domain.FuelStop{{
			City:          "Mid-route",
			EstimatedFuel: "45%",
			Reason:        "Regular refueling stop",
		}}
	}

	rangeKm := tankCapacityL * mileageKmpl
	optimalStopKm := rangeKm * 0.6

	numStops := int(distanceKm / optimalStopKm)
	if numStops < 1 {
		numStops = 1
	}

	if len(cities) >= numStops {
		step := len(cities) / (numStops + 1)
		if step < 1 {
			step = 1
		}

		stops := make([]domain.FuelStop, 0, numStops)
		for i := 1; i <= numStops; i++ {
			idx := i * step
			if idx > len(cities)-1 {
				idx = len(cities) - 1
			}

			fuel := 100 - float64(i)*(80/float64(numStops+1))
			if fuel < 20 {
				fuel = 20
			}

			stops = append(stops, domain.FuelStop{
				City:          cities[idx],
				EstimatedFuel: fmt.Sprintf("%d%%", int(fuel)),
				Reason:        fmt.Sprintf("Refuel before reaching %s", destination),
			})
		}
		return stops
	}

	stops := make([]domain.FuelStop, 0, numStops)
	for i := 1; i <= numStops; i++ {
		fuel := 100 - float64(i)*(70/float64(numStops+1))
		if fuel < 25 {
			fuel = 25
		}

		stops = append(stops, domain.FuelStop{
			City:          fmt.Sprintf("Stop %d", i),
			EstimatedFuel: fmt.Sprintf("%d%%", int(fuel)),
			Reason:        fmt.Sprintf("Planned refueling after ~%d km", int(optimalStopKm*float64(i))),
		})
	}
	return stops
}
