package services

import (
	"context"
	"errors"
	"testing"

	"fleet-dispatch-service/internal/adapters/repositories"
	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
)

func newTestBoard(t *testing.T) (*LoadBoard, *repositories.MemoryLoadStore, *repositories.MemoryTripStore) {
	t.Helper()
	loads := repositories.NewMemoryLoadStore()
	trips := repositories.NewMemoryTripStore()
	return NewLoadBoard(loads, trips, config.Defaults()), loads, trips
}

func TestSubmitAssignsRateByRequester(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	customer, err := board.Submit(ctx, 500, "Surat", "Jaipur", "+911111111111", domain.RequesterCustomer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID != "LOAD001" {
		t.Fatalf("load id = %q, want LOAD001", customer.ID)
	}
	if customer.RatePerKg != 12 {
		t.Fatalf("customer rate = %v, want 12", customer.RatePerKg)
	}
	if customer.Status != domain.LoadPending {
		t.Fatalf("status = %q, want pending", customer.Status)
	}

	business, err := board.Submit(ctx, 800, "Surat", "Jaipur", "+912222222222", domain.RequesterBusiness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.RatePerKg != 15 {
		t.Fatalf("business rate = %v, want 15", business.RatePerKg)
	}

	// Unspecified requester defaults to customer.
	anon, err := board.Submit(ctx, 300, "Surat", "Jaipur", "+913333333333", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anon.RequesterType != domain.RequesterCustomer || anon.RatePerKg != 12 {
		t.Fatalf("default requester = %q rate %v, want customer at 12", anon.RequesterType, anon.RatePerKg)
	}
}

func TestSubmitRejectsNonPositiveWeight(t *testing.T) {
	board, _, _ := newTestBoard(t)

	if _, err := board.Submit(context.Background(), 0, "Surat", "Jaipur", "+911111111111", domain.RequesterCustomer); err == nil {
		t.Fatalf("expected error for zero weight")
	}
}

func TestApproveAttachesLoadToTrip(t *testing.T) {
	board, loads, trips := newTestBoard(t)
	ctx := context.Background()

	trip, err := trips.Create(ctx, &domain.Trip{
		Origin:              "Mumbai",
		Destination:         "Delhi",
		AvailableCapacityKg: 2000,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	load, err := board.Submit(ctx, 500, "Delhi", "Jaipur", "+911111111111", domain.RequesterCustomer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	gotLoad, gotTrip, err := board.Approve(ctx, load.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotLoad.Status != domain.LoadApproved {
		t.Fatalf("load status = %q, want approved", gotLoad.Status)
	}
	if gotLoad.TripID != trip.ID {
		t.Fatalf("load trip = %q, want %q", gotLoad.TripID, trip.ID)
	}
	if gotTrip.AvailableCapacityKg != 1500 {
		t.Fatalf("remaining capacity = %v, want 1500", gotTrip.AvailableCapacityKg)
	}
	if len(gotTrip.Waypoints) != 2 || gotTrip.Waypoints[0] != "Delhi" || gotTrip.Waypoints[1] != "Jaipur" {
		t.Fatalf("waypoints = %v, want [Delhi Jaipur]", gotTrip.Waypoints)
	}

	stored, err := loads.Get(ctx, load.ID)
	if err != nil {
		t.Fatalf("get load: %v", err)
	}
	if stored.Status != domain.LoadApproved || stored.TripID != trip.ID {
		t.Fatalf("stored load = %+v, approval not persisted", stored)
	}
}

func TestApproveSkipsOffRouteAndOverweight(t *testing.T) {
	board, _, trips := newTestBoard(t)
	ctx := context.Background()

	if _, err := trips.Create(ctx, &domain.Trip{
		Origin:              "Mumbai",
		Destination:         "Delhi",
		AvailableCapacityKg: 400,
	}); err != nil {
		t.Fatalf("create trip: %v", err)
	}

	offRoute, err := board.Submit(ctx, 100, "Chennai", "Kolkata", "+911111111111", domain.RequesterCustomer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, _, err := board.Approve(ctx, offRoute.ID); !errors.Is(err, ErrNoSuitableTrip) {
		t.Fatalf("off-route err = %v, want ErrNoSuitableTrip", err)
	}

	tooHeavy, err := board.Submit(ctx, 500, "Delhi", "Jaipur", "+911111111111", domain.RequesterCustomer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, _, err := board.Approve(ctx, tooHeavy.ID); !errors.Is(err, ErrNoSuitableTrip) {
		t.Fatalf("overweight err = %v, want ErrNoSuitableTrip", err)
	}
}

func TestApproveUnknownLoad(t *testing.T) {
	board, _, _ := newTestBoard(t)

	if _, _, err := board.Approve(context.Background(), "LOAD999"); !errors.Is(err, domain.ErrLoadNotFound) {
		t.Fatalf("err = %v, want ErrLoadNotFound", err)
	}
}

func TestReject(t *testing.T) {
	board, loads, _ := newTestBoard(t)
	ctx := context.Background()

	load, err := board.Submit(ctx, 500, "Surat", "Jaipur", "+911111111111", domain.RequesterCustomer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := board.Reject(ctx, load.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := loads.Get(ctx, load.ID)
	if err != nil {
		t.Fatalf("get load: %v", err)
	}
	if stored.Status != domain.LoadRejected {
		t.Fatalf("status = %q, want rejected", stored.Status)
	}
	if stored.TripID != "" {
		t.Fatalf("trip id = %q, want empty", stored.TripID)
	}
}

func TestMatchTripIsReadOnly(t *testing.T) {
	board, _, trips := newTestBoard(t)
	ctx := context.Background()

	trip, err := trips.Create(ctx, &domain.Trip{
		Origin:              "Mumbai",
		Destination:         "Delhi",
		AvailableCapacityKg: 2000,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	load, err := board.Submit(ctx, 500, "Delhi", "Jaipur", "+911111111111", domain.RequesterCustomer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	match, err := board.MatchTrip(ctx, load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match == nil || match.ID != trip.ID {
		t.Fatalf("match = %+v, want trip %s", match, trip.ID)
	}

	// No side effects: capacity stays untouched until approval.
	stored, err := trips.Get(ctx, trip.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if stored.AvailableCapacityKg != 2000 {
		t.Fatalf("capacity = %v, want 2000", stored.AvailableCapacityKg)
	}

	offRoute, err := board.Submit(ctx, 500, "Kolkata", "Guwahati", "+912222222222", domain.RequesterCustomer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	match, err = board.MatchTrip(ctx, offRoute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match != nil {
		t.Fatalf("match = %+v, want nil for off-route load", match)
	}
}
