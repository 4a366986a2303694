package dto

import (
	"time"

	"fleet-dispatch-service/internal/domain"
)

type VehicleResponse struct {
	ID            string  `json:"id"`
	Number        string  `json:"number"`
	Type          string  `json:"type"`
	CapacityKg    float64 `json:"capacity_kg"`
	CurrentLoadKg float64 `json:"current_load_kg"`
	MileageKmpl   float64 `json:"mileage_kmpl"`
	Condition     string  `json:"condition"`
	Location      string  `json:"location"`
	Status        string  `json:"status"`
	DriverPhone   string  `json:"driver_phone"`
	DriverName    string  `json:"driver_name"`
	FuelPercent   float64 `json:"fuel_percent"`

	CurrentTripID      string     `json:"current_trip_id,omitempty"`
	LastTripAt         *time.Time `json:"last_trip_at,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`
}

type ListVehicleResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

func FromVehicle(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:            v.ID,
		Number:        v.Number,
		Type:          v.Type,
		CapacityKg:    v.CapacityKg,
		CurrentLoadKg: v.CurrentLoadKg,
		MileageKmpl:   v.MileageKmpl,
		Condition:     string(v.Condition),
		Location:      v.Location,
		Status:        string(v.Status),
		DriverPhone:   v.DriverPhone,
		DriverName:    v.DriverName,
		FuelPercent:   v.FuelPercent,

		CurrentTripID:      v.CurrentTripID,
		LastTripAt:         v.LastTripAt,
		LastLocationUpdate: v.LastLocationUpdate,
	}
}
