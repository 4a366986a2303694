package domain

import "time"

type LoadStatus string

const (
	LoadPending  LoadStatus = "pending"
	LoadApproved LoadStatus = "approved"
	LoadRejected LoadStatus = "rejected"
	LoadAssigned LoadStatus = "assigned"
)

type RequesterType string

const (
	RequesterCustomer RequesterType = "customer"
	RequesterBusiness RequesterType = "business"
)

// Load is an external shipment request competing for capacity, either at trip
// creation or opportunistically mid-trip. TripID is empty until the load is
// matched onto a trip.
type Load struct {
	ID            string
	WeightKg      float64
	Pickup        string
	Dropoff       string
	RequesterPhone string
	RequesterType RequesterType
	RatePerKg     float64
	Status        LoadStatus
	TripID        string
	CreatedAt     time.Time
}
