package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

type TripHandler struct {
	Planner   *services.Planner
	Lifecycle *services.Lifecycle
	Trips     ports.TripStore
}

// decodeBody enforces a single strict JSON object per request.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// Plan creates a trip: geocoding, routing, truck selection, and the full
// cost/profit estimate in one shot.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanTripRequest
	if !decodeBody(w, r, &req) {
		return
	}

	origin := strings.TrimSpace(req.Origin)
	destination := strings.TrimSpace(req.Destination)
	if origin == "" || destination == "" {
		writeError(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}

	trip, err := h.Planner.PlanTrip(r.Context(), origin, destination, req.Waypoints)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.FromTrip(trip))
}

// Active lists trips still occupying a vehicle. With ?driver=<phone> it
// narrows to that driver's current trip.
func (h *TripHandler) Active(w http.ResponseWriter, r *http.Request) {
	if driver := strings.TrimSpace(r.URL.Query().Get("driver")); driver != "" {
		trip, err := h.Lifecycle.ActiveTripForDriver(r.Context(), driver)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.ListTripResponse{
			Trips: []dto.TripResponse{dto.FromTrip(trip)},
		})
		return
	}

	trips, err := h.Trips.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListTripResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.FromTrip(t))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req dto.AcceptTripRequest
	if !decodeBody(w, r, &req) {
		return
	}

	phone := strings.TrimSpace(req.DriverPhone)
	if phone == "" {
		writeError(w, r, http.StatusBadRequest, "driver_phone is required")
		return
	}

	trip, err := h.Lifecycle.Accept(r.Context(), r.PathValue("id"), phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	location, ok := h.locationBody(w, r)
	if !ok {
		return
	}

	trip, err := h.Lifecycle.Start(r.Context(), r.PathValue("id"), location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

func (h *TripHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	location, ok := h.locationBody(w, r)
	if !ok {
		return
	}

	trip, err := h.Lifecycle.UpdateLocation(r.Context(), r.PathValue("id"), location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

func (h *TripHandler) Complete(w http.ResponseWriter, r *http.Request) {
	location, ok := h.locationBody(w, r)
	if !ok {
		return
	}

	trip, err := h.Lifecycle.Complete(r.Context(), r.PathValue("id"), location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

func (h *TripHandler) locationBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req dto.TripLocationRequest
	if !decodeBody(w, r, &req) {
		return "", false
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		writeError(w, r, http.StatusBadRequest, "location is required")
		return "", false
	}
	return location, true
}
