package dto

import (
	"time"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/services"
)

type SubmitLoadRequest struct {
	WeightKg      float64 `json:"weight_kg"`
	Pickup        string  `json:"pickup"`
	Dropoff       string  `json:"dropoff"`
	Phone         string  `json:"phone"`
	RequesterType string  `json:"requester_type"`
}

type LoadResponse struct {
	ID            string    `json:"id"`
	WeightKg      float64   `json:"weight_kg"`
	Pickup        string    `json:"pickup"`
	Dropoff       string    `json:"dropoff"`
	Phone         string    `json:"phone"`
	RequesterType string    `json:"requester_type"`
	RatePerKg     float64   `json:"rate_per_kg"`
	Status        string    `json:"status"`
	TripID        string    `json:"trip_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmitLoadResponse carries the recorded load plus a hint about the first
// active trip that could take it, when one exists.
type SubmitLoadResponse struct {
	Load  LoadResponse       `json:"load"`
	Match *LoadMatchResponse `json:"match,omitempty"`
}

type LoadMatchResponse struct {
	TripID              string  `json:"trip_id"`
	Origin              string  `json:"origin"`
	Destination         string  `json:"destination"`
	AvailableCapacityKg float64 `json:"available_capacity_kg"`
}

type ApproveLoadResponse struct {
	Load LoadResponse `json:"load"`
	Trip TripResponse `json:"trip"`
}

type OpportunityResponse struct {
	LoadID            string  `json:"load_id"`
	WeightKg          float64 `json:"weight_kg"`
	Pickup            string  `json:"pickup"`
	Dropoff           string  `json:"dropoff"`
	AdditionalRevenue float64 `json:"additional_revenue"`
	DetourEstimate    string  `json:"detour_estimate"`
	ProfitImpact      string  `json:"profit_impact"`
}

type ListOpportunityResponse struct {
	Opportunities []OpportunityResponse `json:"opportunities"`
}

func FromLoad(l *domain.Load) LoadResponse {
	return LoadResponse{
		ID:            l.ID,
		WeightKg:      l.WeightKg,
		Pickup:        l.Pickup,
		Dropoff:       l.Dropoff,
		Phone:         l.RequesterPhone,
		RequesterType: string(l.RequesterType),
		RatePerKg:     l.RatePerKg,
		Status:        string(l.Status),
		TripID:        l.TripID,
		CreatedAt:     l.CreatedAt,
	}
}

func FromOpportunity(o services.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		LoadID:            o.LoadID,
		WeightKg:          o.WeightKg,
		Pickup:            o.Pickup,
		Dropoff:           o.Dropoff,
		AdditionalRevenue: o.AdditionalRevenue,
		DetourEstimate:    o.DetourEstimate,
		ProfitImpact:      o.ProfitImpact,
	}
}
