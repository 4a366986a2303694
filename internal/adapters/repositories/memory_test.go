package repositories

import (
	"context"
	"errors"
	"testing"

	"fleet-dispatch-service/internal/domain"
)

func TestMemoryRegistryListAvailableOriginFirst(t *testing.T) {
	r := NewMemoryVehicleRegistry(
		&domain.Vehicle{ID: "TRK001", Location: "Delhi", Status: domain.VehicleAvailable},
		&domain.Vehicle{ID: "TRK002", Location: "Mumbai", Status: domain.VehicleAssigned},
		&domain.Vehicle{ID: "TRK003", Location: "mumbai", Status: domain.VehicleAvailable},
		&domain.Vehicle{ID: "TRK004", Location: "Pune", Status: domain.VehicleAvailable},
	)

	got, err := r.ListAvailable(context.Background(), "Mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Assigned vehicles are filtered; origin matches (case-insensitive)
	// lead, everyone else keeps insertion order.
	wantIDs := []string{"TRK003", "TRK001", "TRK004"}
	if len(got) != len(wantIDs) {
		t.Fatalf("vehicles = %d, want %d", len(got), len(wantIDs))
	}
	for i, v := range got {
		if v.ID != wantIDs[i] {
			t.Fatalf("vehicle %d = %s, want %s", i, v.ID, wantIDs[i])
		}
	}
}

func TestMemoryRegistrySnapshotIsolation(t *testing.T) {
	r := NewMemoryVehicleRegistry(
		&domain.Vehicle{ID: "TRK001", Location: "Mumbai", Status: domain.VehicleAvailable, FuelPercent: 80},
	)
	ctx := context.Background()

	v, err := r.Get(ctx, "TRK001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Mutating the returned snapshot must not leak into the registry.
	v.FuelPercent = 5
	again, err := r.Get(ctx, "TRK001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.FuelPercent != 80 {
		t.Fatalf("fuel = %v, want 80 (snapshot leaked)", again.FuelPercent)
	}
}

func TestMemoryRegistryUpdateNormalizes(t *testing.T) {
	r := NewMemoryVehicleRegistry(
		&domain.Vehicle{ID: "TRK001", CapacityKg: 1000, Status: domain.VehicleAvailable},
	)
	ctx := context.Background()

	if err := r.Update(ctx, &domain.Vehicle{ID: "TRK001", CapacityKg: 1000, CurrentLoadKg: 2500, FuelPercent: 130}); err != nil {
		t.Fatalf("update: %v", err)
	}

	v, err := r.Get(ctx, "TRK001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.CurrentLoadKg != 1000 {
		t.Fatalf("load = %v, want clamped to 1000", v.CurrentLoadKg)
	}
	if v.FuelPercent != 100 {
		t.Fatalf("fuel = %v, want clamped to 100", v.FuelPercent)
	}
}

func TestMemoryTripStoreSequentialIDs(t *testing.T) {
	s := NewMemoryTripStore()
	ctx := context.Background()

	first, err := s.Create(ctx, &domain.Trip{Origin: "Mumbai", Destination: "Delhi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.Create(ctx, &domain.Trip{Origin: "Pune", Destination: "Nagpur"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.ID != "TRIP001" || second.ID != "TRIP002" {
		t.Fatalf("ids = %q, %q; want TRIP001, TRIP002", first.ID, second.ID)
	}
	if first.Status != domain.TripPending {
		t.Fatalf("status = %q, want pending", first.Status)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be stamped")
	}
}

func TestMemoryStoresNotFound(t *testing.T) {
	ctx := context.Background()

	if _, err := NewMemoryTripStore().Get(ctx, "TRIP999"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("trip err = %v, want ErrTripNotFound", err)
	}
	if _, err := NewMemoryLoadStore().Get(ctx, "LOAD999"); !errors.Is(err, domain.ErrLoadNotFound) {
		t.Fatalf("load err = %v, want ErrLoadNotFound", err)
	}
	if _, err := NewMemoryVehicleRegistry().Get(ctx, "TRK999"); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("vehicle err = %v, want ErrVehicleNotFound", err)
	}
	if _, err := NewMemoryUserDirectory().Get(ctx, "+910000000000"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user err = %v, want ErrUserNotFound", err)
	}
}
