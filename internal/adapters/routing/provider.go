package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/platform/obs"
	"fleet-dispatch-service/internal/ports"
)

const userAgent = "fleet-dispatch-service/1.0"

// GeocodeCache is the persistent city -> coordinates cache consumed by the
// provider. A miss is (zero, false, nil); errors are reserved for cache
// infrastructure failures.
type GeocodeCache interface {
	Get(ctx context.Context, city string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, city string, coords domain.Coordinates) error
}

// Provider implements RouteProvider and Geocoder against public routing
// services.
//
// Routing tries GraphHopper first and falls back to OSRM; geocoding tries
// GraphHopper first and falls back to Nominatim. The GraphHopper key is
// optional (the free tier works without one, rate-limited). Both fallbacks
// log the primary failure rather than surfacing it, since the caller only
// cares whether any service produced an answer.
//
// The provider is safe for concurrent use.
type Provider struct {
	session      *http.Client
	apiKey       string
	ghBaseURL    string
	osrmBaseURL  string
	nominatimURL string
	countryBias  string
	geocodeCache GeocodeCache
}

func NewProvider(apiKey string, geocodeCache GeocodeCache) *Provider {
	return &Provider{
		session:      &http.Client{Timeout: 15 * time.Second},
		apiKey:       apiKey,
		ghBaseURL:    "https://graphhopper.com/api/1",
		osrmBaseURL:  "https://router.project-osrm.org",
		nominatimURL: "https://nominatim.openstreetmap.org",
		countryBias:  "India",
		geocodeCache: geocodeCache,
	}
}

// normalize ensures consistent cache keys by collapsing whitespace and case.
func (p *Provider) normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ComputeRoute returns road distance and duration between two coordinates.
func (p *Provider) ComputeRoute(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "routing.ComputeRoute")(&err)

	result, ghErr := p.routeGraphHopper(ctx, origin, destination)
	if ghErr == nil {
		return result, nil
	}
	log.Printf("msg=graphhopper_route_failed err=%q", ghErr)

	result, osrmErr := p.routeOSRM(ctx, origin, destination)
	if osrmErr == nil {
		return result, nil
	}

	return ports.RouteResult{}, fmt.Errorf(
		"all routing services failed: graphhopper: %v; osrm: %w",
		ghErr, osrmErr,
	)
}

// Resolve returns coordinates for a city name, consulting the persistent
// cache first. Cache write failures are logged and otherwise ignored.
func (p *Provider) Resolve(
	ctx context.Context,
	city string,
) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "routing.Resolve")(&err)

	norm := p.normalize(city)
	if norm == "" {
		return domain.Coordinates{}, errors.New("city must be non-empty")
	}

	if p.geocodeCache != nil {
		coords, ok, err := p.geocodeCache.Get(ctx, norm)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache read: %w", err)
		}
		if ok {
			return coords, nil
		}
	}

	coords, ghErr := p.geocodeGraphHopper(ctx, norm)
	if ghErr != nil {
		log.Printf("msg=graphhopper_geocode_failed city=%q err=%q", norm, ghErr)
		var nomErr error
		coords, nomErr = p.geocodeNominatim(ctx, norm)
		if nomErr != nil {
			return domain.Coordinates{}, fmt.Errorf(
				"geocode %q: graphhopper: %v; nominatim: %w",
				city, ghErr, nomErr,
			)
		}
	}

	if p.geocodeCache != nil {
		if err := p.geocodeCache.Put(ctx, norm, coords); err != nil {
			log.Printf("msg=geocode_cache_write_failed city=%q err=%q", norm, err)
		}
	}

	return coords, nil
}

type graphHopperRouteResponse struct {
	Paths []struct {
		Distance float64 `json:"distance"` // meters
		Time     int64   `json:"time"`     // milliseconds
	} `json:"paths"`
}

func (p *Provider) routeGraphHopper(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (ports.RouteResult, error) {
	endpoint := p.ghBaseURL + "/route"

	buildReq := func() (*http.Request, error) {
		req, err := p.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Add("point", fmt.Sprintf("%f,%f", origin.Lat, origin.Lon))
		q.Add("point", fmt.Sprintf("%f,%f", destination.Lat, destination.Lon))
		q.Set("vehicle", "truck")
		q.Set("locale", "en")
		q.Set("calc_points", "false")
		q.Set("points_encoded", "false")
		if p.apiKey != "" {
			q.Set("key", p.apiKey)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	resp, err := p.doWithRetry(ctx, buildReq)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded graphHopperRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode route response: %w", err)
	}

	if len(decoded.Paths) == 0 {
		return ports.RouteResult{}, errors.New("no route paths returned")
	}

	path := decoded.Paths[0]
	return ports.RouteResult{
		DistanceKm:    path.Distance / 1000,
		DurationHours: float64(path.Time) / (1000 * 3600),
	}, nil
}

type osrmRouteResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

func (p *Provider) routeOSRM(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (ports.RouteResult, error) {
	endpoint := fmt.Sprintf(
		"%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		p.osrmBaseURL,
		origin.Lon, origin.Lat,
		destination.Lon, destination.Lat,
	)

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode route response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, errors.New("no routes returned")
	}

	route := decoded.Routes[0]
	return ports.RouteResult{
		DistanceKm:    route.Distance / 1000,
		DurationHours: route.Duration / 3600,
	}, nil
}

type graphHopperGeocodeResponse struct {
	Hits []struct {
		Point struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"point"`
	} `json:"hits"`
}

func (p *Provider) geocodeGraphHopper(
	ctx context.Context,
	city string,
) (domain.Coordinates, error) {
	endpoint := p.ghBaseURL + "/geocode"

	buildReq := func() (*http.Request, error) {
		req, err := p.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", city+", "+p.countryBias)
		q.Set("limit", "1")
		q.Set("locale", "en")
		if p.apiKey != "" {
			q.Set("key", p.apiKey)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	resp, err := p.doWithRetry(ctx, buildReq)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded graphHopperGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Hits) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", city)
	}

	hit := decoded.Hits[0]
	return domain.Coordinates{Lat: hit.Point.Lat, Lon: hit.Point.Lng}, nil
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (p *Provider) geocodeNominatim(
	ctx context.Context,
	city string,
) (domain.Coordinates, error) {
	endpoint := p.nominatimURL + "/search?" + url.Values{
		"q":      {city + ", " + p.countryBias},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode()

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", city)
	}

	var coords domain.Coordinates
	if _, err := fmt.Sscanf(decoded[0].Lat, "%f", &coords.Lat); err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse latitude %q: %w", decoded[0].Lat, err)
	}
	if _, err := fmt.Sscanf(decoded[0].Lon, "%f", &coords.Lon); err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse longitude %q: %w", decoded[0].Lon, err)
	}
	return coords, nil
}
