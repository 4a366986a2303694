package handlers

import (
	"net/http"
	"strings"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/services"
)

type LoadHandler struct {
	Board *services.LoadBoard
}

// Submit records a new load request from a customer or partner business.
func (h *LoadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitLoadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.WeightKg <= 0 {
		writeError(w, r, http.StatusBadRequest, "weight_kg must be positive")
		return
	}

	pickup := strings.TrimSpace(req.Pickup)
	dropoff := strings.TrimSpace(req.Dropoff)
	if pickup == "" || dropoff == "" {
		writeError(w, r, http.StatusBadRequest, "pickup and dropoff are required")
		return
	}

	requester := domain.RequesterType(strings.ToLower(strings.TrimSpace(req.RequesterType)))
	switch requester {
	case "", domain.RequesterCustomer, domain.RequesterBusiness:
	default:
		writeError(w, r, http.StatusBadRequest, "requester_type must be customer or business")
		return
	}

	load, err := h.Board.Submit(r.Context(), req.WeightKg, pickup, dropoff, strings.TrimSpace(req.Phone), requester)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := dto.SubmitLoadResponse{Load: dto.FromLoad(load)}
	// Best effort: a match failure should not fail the intake.
	if trip, err := h.Board.MatchTrip(r.Context(), load); err == nil && trip != nil {
		resp.Match = &dto.LoadMatchResponse{
			TripID:              trip.ID,
			Origin:              trip.Origin,
			Destination:         trip.Destination,
			AvailableCapacityKg: trip.AvailableCapacityKg,
		}
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// Approve attaches a pending load to a matching active trip.
func (h *LoadHandler) Approve(w http.ResponseWriter, r *http.Request) {
	load, trip, err := h.Board.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ApproveLoadResponse{
		Load: dto.FromLoad(load),
		Trip: dto.FromTrip(trip),
	})
}

// Reject marks a pending load rejected.
func (h *LoadHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.Board.Reject(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "rejected"})
}
