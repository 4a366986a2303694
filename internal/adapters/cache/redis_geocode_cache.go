package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/platform/obs"
)

// City coordinates change for practical purposes never, but a bounded TTL
// keeps stale or mis-geocoded entries from living forever.
const geocodeTTL = 30 * 24 * time.Hour

// RedisGeocodeCache is a Redis-backed cache mapping city names to
// coordinates, keyed "geocode:<city>" with JSON values.
type RedisGeocodeCache struct {
	client *redis.Client
}

func NewRedisGeocodeCache(client *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client}
}

type cachedCoords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func geocodeKey(city string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(city))
}

// Get fetches cached coordinates for a city. A missing key is not an error.
func (c *RedisGeocodeCache) Get(
	ctx context.Context,
	city string,
) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if c.client == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: client is nil")
	}
	if strings.TrimSpace(city) == "" {
		return domain.Coordinates{}, false, errors.New("geocode cache: empty city key")
	}

	raw, err := c.client.Get(ctx, geocodeKey(city)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache %q: %w", city, err)
	}

	var cc cachedCoords
	if err := json.Unmarshal(raw, &cc); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache %q: decode: %w", city, err)
	}

	return domain.Coordinates{Lat: cc.Lat, Lon: cc.Lon}, true, nil
}

// Put stores a city -> coordinates mapping with the cache TTL.
func (c *RedisGeocodeCache) Put(
	ctx context.Context,
	city string,
	coords domain.Coordinates,
) error {
	if c.client == nil {
		return errors.New("geocode cache: client is nil")
	}
	if strings.TrimSpace(city) == "" {
		return errors.New("geocode cache: empty city key")
	}

	raw, err := json.Marshal(cachedCoords{Lat: coords.Lat, Lon: coords.Lon})
	if err != nil {
		return fmt.Errorf("insert geocode cache %q: encode: %w", city, err)
	}

	if err := c.client.Set(ctx, geocodeKey(city), raw, geocodeTTL).Err(); err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", city, err)
	}

	return nil
}
