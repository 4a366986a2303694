package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/services"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError translates domain and service errors into HTTP responses.
// Unrecognized errors are logged and masked as 500s.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoVehicleAvailable):
		writeError(w, r, http.StatusConflict, "No trucks available")
	case errors.Is(err, services.ErrRouteUnavailable):
		writeError(w, r, http.StatusBadGateway, "Route calculation failed")
	case errors.Is(err, services.ErrNotAuthorized):
		writeError(w, r, http.StatusForbidden, "Not authorized")
	case errors.Is(err, services.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, "Trip is not in a valid state for this action")
	case errors.Is(err, services.ErrNoSuitableTrip):
		writeError(w, r, http.StatusConflict, "No suitable trip for this load")
	case errors.Is(err, domain.ErrTripNotFound):
		writeError(w, r, http.StatusNotFound, "Trip not found")
	case errors.Is(err, domain.ErrVehicleNotFound):
		writeError(w, r, http.StatusNotFound, "Vehicle not found")
	case errors.Is(err, domain.ErrLoadNotFound):
		writeError(w, r, http.StatusNotFound, "Load not found")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "User not found")
	default:
		log.Printf("unhandled service error: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
