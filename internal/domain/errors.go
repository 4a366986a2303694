package domain

import "errors"

// Not-found lookups surface these sentinels from every registry/store
// implementation so callers can branch with errors.Is regardless of backend.
var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrLoadNotFound    = errors.New("load not found")
	ErrUserNotFound    = errors.New("user not found")
)
