package api

import (
	"net/http"

	"fleet-dispatch-service/internal/api/handlers"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	vehicles ports.VehicleRegistry,
	trips ports.TripStore,
	planner *services.Planner,
	lifecycle *services.Lifecycle,
	board *services.LoadBoard,
	matcher *services.CapacityMatcher,
	roles *services.RoleDetector,
) http.Handler {
	mux := http.NewServeMux()

	fleetHandler := &handlers.FleetHandler{Vehicles: vehicles, Matcher: matcher}
	tripHandler := &handlers.TripHandler{Planner: planner, Lifecycle: lifecycle, Trips: trips}
	loadHandler := &handlers.LoadHandler{Board: board}
	userHandler := &handlers.UserHandler{Roles: roles}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("GET /fleet", fleetHandler.List)
	mux.HandleFunc("GET /vehicles/{id}/opportunities", fleetHandler.Opportunities)
	mux.HandleFunc("GET /users/{phone}/role", userHandler.Role)

	mux.HandleFunc("POST /trips", tripHandler.Plan)
	mux.HandleFunc("GET /trips/active", tripHandler.Active)
	mux.HandleFunc("POST /trips/{id}/accept", tripHandler.Accept)
	mux.HandleFunc("POST /trips/{id}/start", tripHandler.Start)
	mux.HandleFunc("POST /trips/{id}/location", tripHandler.UpdateLocation)
	mux.HandleFunc("POST /trips/{id}/complete", tripHandler.Complete)

	mux.HandleFunc("POST /loads", loadHandler.Submit)
	mux.HandleFunc("POST /loads/{id}/approve", loadHandler.Approve)
	mux.HandleFunc("POST /loads/{id}/reject", loadHandler.Reject)

	return loggingMiddleware(mux)
}
