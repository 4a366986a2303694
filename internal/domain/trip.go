package domain

import "time"

type TripStatus string

const (
	TripPending    TripStatus = "pending"
	TripAccepted   TripStatus = "accepted"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
)

// A planned refueling stop along a trip. EstimatedFuel is the remaining tank
// level expected on arrival, formatted as "NN%".
type FuelStop struct {
	City          string `json:"city"`
	EstimatedFuel string `json:"estimated_fuel"`
	Reason        string `json:"reason"`
}

// Trip is one planned-and-executed haul from origin to destination.
//
// The vehicle fields (Mileage through AvailableCapacityKg) are a snapshot of
// the selected vehicle at planning time; the live vehicle record may diverge
// afterwards. AvailableCapacityKg equals CapacityKg - CurrentLoadKg at
// creation and is drawn down as opportunistic loads are approved onto the
// trip. ActualProfit and EndTime are nil until completion.
type Trip struct {
	ID          string
	Origin      string
	Destination string
	Waypoints   []string

	TruckID     string
	TruckNumber string
	DriverPhone string
	DriverName  string

	DistanceKm      float64
	ETAHours        float64
	FuelCost        float64
	TollCost        float64
	TotalCost       float64
	ExpectedRevenue float64
	ExpectedProfit  float64
	Confidence      float64
	FuelStops       []FuelStop
	LoadPercent     float64

	Mileage             float64
	Condition           Condition
	FuelPercent         float64
	CapacityKg          float64
	CurrentLoadKg       float64
	AvailableCapacityKg float64

	Status          TripStatus
	CurrentLocation string
	ProgressPercent float64
	ActualProfit    *float64

	CreatedAt   time.Time
	LastUpdated *time.Time
	EndTime     *time.Time
}

// Active reports whether the trip still occupies its vehicle and driver.
func (t *Trip) Active() bool {
	switch t.Status {
	case TripPending, TripAccepted, TripInProgress:
		return true
	}
	return false
}
