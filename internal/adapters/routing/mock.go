package routing

import (
	"context"
	"fmt"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

type MockLeg struct {
	From, To domain.Coordinates
	Km       float64
	Hours    float64
}

type MockRouteProvider struct {
	m map[string]ports.RouteResult
}

func legKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.4f,%.4f|%.4f,%.4f", from.Lat, from.Lon, to.Lat, to.Lon)
}

func NewMockRouteProvider(legs []MockLeg) *MockRouteProvider {
	m := make(map[string]ports.RouteResult, len(legs))
	for _, l := range legs {
		m[legKey(l.From, l.To)] = ports.RouteResult{DistanceKm: l.Km, DurationHours: l.Hours}
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) ComputeRoute(ctx context.Context, origin, destination domain.Coordinates) (ports.RouteResult, error) {
	r, ok := p.m[legKey(origin, destination)]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing leg %v -> %v", origin, destination)
	}

	return r, nil
}

type MockGeocoder struct {
	m map[string]domain.Coordinates
}

func NewMockGeocoder(cities map[string]domain.Coordinates) *MockGeocoder {
	return &MockGeocoder{m: cities}
}

func (g *MockGeocoder) Resolve(ctx context.Context, city string) (domain.Coordinates, error) {
	c, ok := g.m[city]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("missing coordinates for %q", city)
	}

	return c, nil
}
