package domain

import "time"

// Vehicle condition grades as recorded at fleet provisioning.
type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "available"
	VehicleAssigned  VehicleStatus = "assigned"
	VehicleInTransit VehicleStatus = "in_transit"
)

// Vehicle is one truck in the fleet, with a single assigned driver.
//
// Optional fields use the zero value as "not set": CurrentTripID is empty when
// the vehicle carries no trip, and the timestamp pointers are nil until the
// first assignment or location update. Defaults are applied at the registry
// boundary (seeding/validation), not per access.
type Vehicle struct {
	ID            string
	Number        string
	Type          string
	CapacityKg    float64
	CurrentLoadKg float64
	MileageKmpl   float64
	Condition     Condition
	Location      string
	Status        VehicleStatus
	DriverPhone   string
	DriverName    string
	FuelPercent   float64

	CurrentTripID      string
	LastTripAt         *time.Time
	LastLocationUpdate *time.Time
}

// Cargo capacity still unclaimed on this vehicle.
func (v *Vehicle) AvailableCapacityKg() float64 {
	free := v.CapacityKg - v.CurrentLoadKg
	if free < 0 {
		return 0
	}
	return free
}

// Normalize clamps fields to their documented ranges.
// Registries call this when loading snapshots so the planning core never sees
// out-of-range values.
func (v *Vehicle) Normalize() {
	if v.FuelPercent < 0 {
		v.FuelPercent = 0
	}
	if v.FuelPercent > 100 {
		v.FuelPercent = 100
	}
	if v.CurrentLoadKg < 0 {
		v.CurrentLoadKg = 0
	}
	if v.CurrentLoadKg > v.CapacityKg {
		v.CurrentLoadKg = v.CapacityKg
	}
}
