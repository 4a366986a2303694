package dto

import (
	"time"

	"fleet-dispatch-service/internal/domain"
)

type PlanTripRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Waypoints   []string `json:"waypoints"`
}

type AcceptTripRequest struct {
	DriverPhone string `json:"driver_phone"`
}

type TripLocationRequest struct {
	Location string `json:"location"`
}

type FuelStopResponse struct {
	City          string `json:"city"`
	EstimatedFuel string `json:"estimated_fuel"`
	Reason        string `json:"reason"`
}

type TripResponse struct {
	ID          string   `json:"id"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Waypoints   []string `json:"waypoints"`

	TruckID     string `json:"truck_id"`
	TruckNumber string `json:"truck_number"`
	DriverPhone string `json:"driver_phone"`
	DriverName  string `json:"driver_name"`

	DistanceKm      float64            `json:"distance_km"`
	ETAHours        float64            `json:"eta_hours"`
	FuelCost        float64            `json:"fuel_cost"`
	TollCost        float64            `json:"toll_cost"`
	TotalCost       float64            `json:"total_cost"`
	ExpectedRevenue float64            `json:"expected_revenue"`
	ExpectedProfit  float64            `json:"expected_profit"`
	Confidence      float64            `json:"confidence"`
	FuelStops       []FuelStopResponse `json:"fuel_stops"`
	LoadPercent     float64            `json:"load_percent"`

	Mileage             float64 `json:"mileage"`
	Condition           string  `json:"condition"`
	FuelPercent         float64 `json:"fuel_percent"`
	CapacityKg          float64 `json:"capacity_kg"`
	CurrentLoadKg       float64 `json:"current_load_kg"`
	AvailableCapacityKg float64 `json:"available_capacity_kg"`

	Status          string   `json:"status"`
	CurrentLocation string   `json:"current_location,omitempty"`
	ProgressPercent float64  `json:"progress_percent"`
	ActualProfit    *float64 `json:"actual_profit,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

type ListTripResponse struct {
	Trips []TripResponse `json:"trips"`
}

func FromTrip(t *domain.Trip) TripResponse {
	waypoints := t.Waypoints
	if waypoints == nil {
		waypoints = []string{}
	}

	stops := make([]FuelStopResponse, 0, len(t.FuelStops))
	for _, s := range t.FuelStops {
		stops = append(stops, FuelStopResponse{
			City:          s.City,
			EstimatedFuel: s.EstimatedFuel,
			Reason:        s.Reason,
		})
	}

	return TripResponse{
		ID:          t.ID,
		Origin:      t.Origin,
		Destination: t.Destination,
		Waypoints:   waypoints,

		TruckID:     t.TruckID,
		TruckNumber: t.TruckNumber,
		DriverPhone: t.DriverPhone,
		DriverName:  t.DriverName,

		DistanceKm:      t.DistanceKm,
		ETAHours:        t.ETAHours,
		FuelCost:        t.FuelCost,
		TollCost:        t.TollCost,
		TotalCost:       t.TotalCost,
		ExpectedRevenue: t.ExpectedRevenue,
		ExpectedProfit:  t.ExpectedProfit,
		Confidence:      t.Confidence,
		FuelStops:       stops,
		LoadPercent:     t.LoadPercent,

		Mileage:             t.Mileage,
		Condition:           string(t.Condition),
		FuelPercent:         t.FuelPercent,
		CapacityKg:          t.CapacityKg,
		CurrentLoadKg:       t.CurrentLoadKg,
		AvailableCapacityKg: t.AvailableCapacityKg,

		Status:          string(t.Status),
		CurrentLocation: t.CurrentLocation,
		ProgressPercent: t.ProgressPercent,
		ActualProfit:    t.ActualProfit,

		CreatedAt:   t.CreatedAt,
		LastUpdated: t.LastUpdated,
		EndTime:     t.EndTime,
	}
}
