package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"fleet-dispatch-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisGeocodeCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisGeocodeCache(client), mr
}

func TestGeocodeCacheMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "Mumbai")
	if err != nil {
		t.Fatalf("Get on empty cache: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	want := domain.Coordinates{Lat: 19.076, Lon: 72.8777}
	if err := c.Put(ctx, "Mumbai", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(ctx, "Mumbai")
	if err != nil {
		t.Fatalf("Get after Put: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit after Put")
	}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGeocodeCacheKeyNormalization(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "  Pune ", domain.Coordinates{Lat: 18.5204, Lon: 73.8567}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, ok, err := c.Get(ctx, "pune")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit with differently-cased key")
	}
}

func TestGeocodeCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "delhi", domain.Coordinates{Lat: 28.7041, Lon: 77.1025}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mr.FastForward(geocodeTTL + time.Hour)

	_, ok, err := c.Get(ctx, "delhi")
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after TTL elapsed")
	}
}

func TestGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "  ", domain.Coordinates{}); err == nil {
		t.Fatalf("expected error for empty city key")
	}
	if _, _, err := c.Get(ctx, ""); err == nil {
		t.Fatalf("expected error for empty city key")
	}
}
