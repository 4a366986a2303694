package handlers

import (
	"net/http"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

type FleetHandler struct {
	Vehicles ports.VehicleRegistry
	Matcher  *services.CapacityMatcher
}

// List returns every vehicle in the fleet with its live status.
func (h *FleetHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Vehicles.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListVehicleResponse{Vehicles: make([]dto.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.FromVehicle(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Opportunities returns pending loads that fit the vehicle's spare capacity.
// An empty list is the normal answer for a vehicle that is not in transit.
func (h *FleetHandler) Opportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := h.Matcher.FindOpportunities(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListOpportunityResponse{Opportunities: make([]dto.OpportunityResponse, 0, len(opps))}
	for _, o := range opps {
		res.Opportunities = append(res.Opportunities, dto.FromOpportunity(o))
	}
	writeJSON(w, r, http.StatusOK, res)
}
