package services

import (
	"context"
	"errors"
	"testing"

	"fleet-dispatch-service/internal/adapters/repositories"
	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
)

func newTestLifecycle(t *testing.T, fuelPercent float64) (*Lifecycle, *repositories.MemoryVehicleRegistry, *domain.Trip) {
	t.Helper()
	ctx := context.Background()

	vehicle := &domain.Vehicle{
		ID:            "TRK001",
		CapacityKg:    10000,
		MileageKmpl:   5.6,
		Condition:     domain.ConditionGood,
		Location:      "Mumbai",
		Status:        domain.VehicleAssigned,
		DriverPhone:   "+919876543210",
		FuelPercent:   fuelPercent,
		CurrentTripID: "TRIP001",
	}
	registry := repositories.NewMemoryVehicleRegistry(vehicle)
	trips := repositories.NewMemoryTripStore()

	trip, err := trips.Create(ctx, &domain.Trip{
		Origin:         "Mumbai",
		Destination:    "Delhi",
		TruckID:        "TRK001",
		DriverPhone:    "+919876543210",
		DistanceKm:     1400,
		ExpectedProfit: 16150,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	return NewLifecycle(registry, trips, config.Defaults()), registry, trip
}

func TestAcceptHappyPath(t *testing.T) {
	lc, registry, trip := newTestLifecycle(t, 100)
	ctx := context.Background()

	got, err := lc.Accept(ctx, trip.ID, "+919876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.TripAccepted {
		t.Fatalf("status = %q, want accepted", got.Status)
	}
	if got.LastUpdated == nil {
		t.Fatalf("expected LastUpdated to be stamped")
	}

	v, err := registry.Get(ctx, "TRK001")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v.Status != domain.VehicleInTransit {
		t.Fatalf("vehicle status = %q, want in_transit", v.Status)
	}
}

func TestAcceptWrongDriver(t *testing.T) {
	lc, _, trip := newTestLifecycle(t, 100)

	if _, err := lc.Accept(context.Background(), trip.ID, "+910000000000"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
}

func TestAcceptTwice(t *testing.T) {
	lc, _, trip := newTestLifecycle(t, 100)
	ctx := context.Background()

	if _, err := lc.Accept(ctx, trip.ID, "+919876543210"); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := lc.Accept(ctx, trip.ID, "+919876543210"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestStartStampsVehicleLocation(t *testing.T) {
	lc, registry, trip := newTestLifecycle(t, 100)
	ctx := context.Background()

	if _, err := lc.Accept(ctx, trip.ID, "+919876543210"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, err := lc.Start(ctx, trip.ID, "Thane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.TripInProgress {
		t.Fatalf("status = %q, want in_progress", got.Status)
	}
	if got.CurrentLocation != "Thane" {
		t.Fatalf("location = %q, want Thane", got.CurrentLocation)
	}

	v, err := registry.Get(ctx, "TRK001")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v.Location != "Thane" {
		t.Fatalf("vehicle location = %q, want Thane", v.Location)
	}
	if v.LastLocationUpdate == nil {
		t.Fatalf("expected LastLocationUpdate to be stamped")
	}
}

func TestStartFromCompleted(t *testing.T) {
	lc, _, trip := newTestLifecycle(t, 100)
	ctx := context.Background()

	if _, err := lc.Complete(ctx, trip.ID, "Delhi"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := lc.Start(ctx, trip.ID, "Mumbai"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateLocationProgressCap(t *testing.T) {
	lc, _, trip := newTestLifecycle(t, 100)
	ctx := context.Background()

	var got *domain.Trip
	var err error
	for i := 0; i < 12; i++ {
		got, err = lc.UpdateLocation(ctx, trip.ID, "Somewhere")
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	// Progress advances 10 per report but never reaches 100 en route.
	if got.ProgressPercent != 95 {
		t.Fatalf("progress = %v, want 95", got.ProgressPercent)
	}
}

func TestCompleteReleasesVehicle(t *testing.T) {
	lc, registry, trip := newTestLifecycle(t, 100)
	ctx := context.Background()

	got, err := lc.Complete(ctx, trip.ID, "Delhi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != domain.TripCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.ProgressPercent != 100 {
		t.Fatalf("progress = %v, want 100", got.ProgressPercent)
	}
	if got.ActualProfit == nil || *got.ActualProfit != 16150*0.95 {
		t.Fatalf("actual profit = %v, want %v", got.ActualProfit, 16150*0.95)
	}
	if got.EndTime == nil {
		t.Fatalf("expected EndTime to be stamped")
	}

	v, err := registry.Get(ctx, "TRK001")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v.Status != domain.VehicleAvailable {
		t.Fatalf("vehicle status = %q, want available", v.Status)
	}
	if v.CurrentTripID != "" {
		t.Fatalf("vehicle trip = %q, want empty", v.CurrentTripID)
	}
	if v.CurrentLoadKg != 0 {
		t.Fatalf("vehicle load = %v, want 0", v.CurrentLoadKg)
	}
	if v.Location != "Delhi" {
		t.Fatalf("vehicle location = %q, want Delhi", v.Location)
	}

	// 1400 km at 5.6 km/L out of a 400 L tank: 62.5 points of fuel burned.
	if v.FuelPercent != 37.5 {
		t.Fatalf("fuel = %v, want 37.5", v.FuelPercent)
	}
}

func TestCompleteFuelFloor(t *testing.T) {
	lc, registry, trip := newTestLifecycle(t, 10)
	ctx := context.Background()

	if _, err := lc.Complete(ctx, trip.ID, "Delhi"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	v, err := registry.Get(ctx, "TRK001")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v.FuelPercent != 0 {
		t.Fatalf("fuel = %v, want 0 (floored)", v.FuelPercent)
	}
}

func TestActiveTripForDriver(t *testing.T) {
	lc, _, trip := newTestLifecycle(t, 100)
	ctx := context.Background()

	got, err := lc.ActiveTripForDriver(ctx, "+919876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != trip.ID {
		t.Fatalf("trip = %q, want %q", got.ID, trip.ID)
	}

	if _, err := lc.ActiveTripForDriver(ctx, "+910000000000"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("err = %v, want ErrTripNotFound", err)
	}

	if _, err := lc.Complete(ctx, trip.ID, "Delhi"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := lc.ActiveTripForDriver(ctx, "+919876543210"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("after completion err = %v, want ErrTripNotFound", err)
	}
}
