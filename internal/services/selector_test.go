package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQualityScoreShortHaul(t *testing.T) {
	s := NewSelector(config.Defaults())

	atOrigin := &domain.Vehicle{
		Location:    "Mumbai",
		Condition:   domain.ConditionGood,
		MileageKmpl: 5.6,
		FuelPercent: 85,
	}
	elsewhere := &domain.Vehicle{
		Location:    "Pune",
		Condition:   domain.ConditionExcellent,
		MileageKmpl: 6.2,
		FuelPercent: 90,
	}

	// 0.4 location + 0.15 condition + 0.085 fuel + 0.056 mileage
	if got := s.qualityScore(atOrigin, "Mumbai", 150); !almostEqual(got, 0.691) {
		t.Fatalf("origin-match score = %v, want 0.691", got)
	}
	// 0 location + 0.2 condition + 0.09 fuel + 0.062 mileage
	if got := s.qualityScore(elsewhere, "Mumbai", 150); !almostEqual(got, 0.352) {
		t.Fatalf("remote score = %v, want 0.352", got)
	}
}

func TestQualityScoreLongHaulBonuses(t *testing.T) {
	s := NewSelector(config.Defaults())

	v := &domain.Vehicle{
		Location:    "Mumbai",
		Condition:   domain.ConditionGood,
		MileageKmpl: 5.6,
		FuelPercent: 85,
		CapacityKg:  10000,
	}

	// Over 500 km the mileage weight doubles; over 800 km capacity counts.
	short := s.qualityScore(v, "Mumbai", 400)
	long := s.qualityScore(v, "Mumbai", 1400)

	wantDelta := 5.6/10*0.1 + 10000.0/200000
	if got := long - short; !almostEqual(got, wantDelta) {
		t.Fatalf("long-haul bonus = %v, want %v", got, wantDelta)
	}
}

func TestQualityScoreSharedHub(t *testing.T) {
	s := NewSelector(config.Defaults())

	v := &domain.Vehicle{
		Location:    "Navi Mumbai",
		Condition:   domain.ConditionFair,
		MileageKmpl: 5,
		FuelPercent: 50,
	}

	// "mumbai" appears in both strings: shared-hub credit, not exact match.
	// 0.3 + 0.1 + 0.05 + 0.05
	if got := s.qualityScore(v, "Mumbai Port", 200); !almostEqual(got, 0.5) {
		t.Fatalf("shared-hub score = %v, want 0.5", got)
	}
}

func TestSelectPrefersOriginMatch(t *testing.T) {
	s := NewSelector(config.Defaults())

	a := &domain.Vehicle{ID: "TRK001", DriverPhone: "+1", Location: "Mumbai", Condition: domain.ConditionGood, MileageKmpl: 5.6, FuelPercent: 85}
	b := &domain.Vehicle{ID: "TRK002", DriverPhone: "+2", Location: "Pune", Condition: domain.ConditionExcellent, MileageKmpl: 6.2, FuelPercent: 90}

	got, err := s.Select("Mumbai", "Pune", 150, []*domain.Vehicle{a, b}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "TRK001" {
		t.Fatalf("selected %s, want TRK001", got.ID)
	}
	if s.LastDriver() != "+1" {
		t.Fatalf("last driver = %q, want +1", s.LastDriver())
	}
}

func TestSelectRotatesAwayFromLastDriver(t *testing.T) {
	s := NewSelector(config.Defaults())

	a := &domain.Vehicle{ID: "TRK001", DriverPhone: "+1", Location: "Mumbai", Condition: domain.ConditionExcellent, MileageKmpl: 6, FuelPercent: 100}
	b := &domain.Vehicle{ID: "TRK002", DriverPhone: "+2", Location: "Mumbai", Condition: domain.ConditionExcellent, MileageKmpl: 6, FuelPercent: 100}
	pool := []*domain.Vehicle{a, b}

	first, err := s.Select("Mumbai", "Delhi", 1400, pool, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != "TRK001" {
		t.Fatalf("first selection %s, want TRK001", first.ID)
	}

	second, err := s.Select("Mumbai", "Delhi", 1400, pool, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != "TRK002" {
		t.Fatalf("second selection %s, want TRK002 (rotation)", second.ID)
	}
}

func TestSelectRotationPrefersLeastLoadedDriver(t *testing.T) {
	s := NewSelector(config.Defaults())

	a := &domain.Vehicle{ID: "TRK001", DriverPhone: "+1", Location: "Mumbai", Condition: domain.ConditionExcellent, MileageKmpl: 6, FuelPercent: 100}
	b := &domain.Vehicle{ID: "TRK002", DriverPhone: "+2", Location: "Mumbai", Condition: domain.ConditionExcellent, MileageKmpl: 6, FuelPercent: 100}

	active := []*domain.Trip{
		{DriverPhone: "+1", Status: domain.TripInProgress},
		{DriverPhone: "+1", Status: domain.TripPending},
	}

	got, err := s.Select("Mumbai", "Delhi", 1400, []*domain.Vehicle{a, b}, active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "TRK002" {
		t.Fatalf("selected %s, want TRK002 (idle driver)", got.ID)
	}
}

func TestSelectFallbackAppliesWorkloadPenalty(t *testing.T) {
	s := NewSelector(config.Defaults())

	// Rotation proposes the least-loaded driver's vehicle, which fails the
	// quality gate; the fallback then scores everyone, where the good
	// vehicle's busy driver is penalized but still wins.
	weak := &domain.Vehicle{ID: "TRK001", DriverPhone: "+1", Location: "Indore", Condition: domain.ConditionFair, MileageKmpl: 4, FuelPercent: 50}
	strong := &domain.Vehicle{ID: "TRK002", DriverPhone: "+2", Location: "Mumbai", Condition: domain.ConditionExcellent, MileageKmpl: 6, FuelPercent: 100}

	active := []*domain.Trip{{DriverPhone: "+2", Status: domain.TripInProgress}}

	got, err := s.Select("Mumbai", "Pune", 150, []*domain.Vehicle{weak, strong}, active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "TRK002" {
		t.Fatalf("selected %s, want TRK002", got.ID)
	}
}

func TestSelectFallbackRecencyBonus(t *testing.T) {
	s := NewSelector(config.Defaults())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	longIdle := now.Add(-25 * time.Hour)
	justRan := now.Add(-1 * time.Hour)

	// Both fail the gate; the idle bonus flips the fallback winner.
	rested := &domain.Vehicle{ID: "TRK001", DriverPhone: "+1", Location: "Kochi", Condition: domain.ConditionGood, MileageKmpl: 5, FuelPercent: 60, LastTripAt: &longIdle}
	busy := &domain.Vehicle{ID: "TRK002", DriverPhone: "+2", Location: "Goa", Condition: domain.ConditionExcellent, MileageKmpl: 5, FuelPercent: 100, LastTripAt: &justRan}

	got, err := s.Select("Mumbai", "Pune", 150, []*domain.Vehicle{rested, busy}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "TRK001" {
		t.Fatalf("selected %s, want TRK001 (recency bonus)", got.ID)
	}
}

func TestSelectEmptyPool(t *testing.T) {
	s := NewSelector(config.Defaults())

	if _, err := s.Select("Mumbai", "Pune", 150, nil, nil); !errors.Is(err, ErrNoVehicleAvailable) {
		t.Fatalf("err = %v, want ErrNoVehicleAvailable", err)
	}
}
