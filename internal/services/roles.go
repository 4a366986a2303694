package services

import (
	"context"
	"errors"
	"fmt"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// RoleDetector resolves who a phone number belongs to: a registered user's
// recorded role wins, otherwise a phone matching a fleet driver is a driver,
// and everyone else is a customer.
type RoleDetector struct {
	users    ports.UserDirectory
	vehicles ports.VehicleRegistry
}

func NewRoleDetector(users ports.UserDirectory, vehicles ports.VehicleRegistry) *RoleDetector {
	return &RoleDetector{users: users, vehicles: vehicles}
}

func (d *RoleDetector) DetectRole(ctx context.Context, phone string) (domain.Role, error) {
	user, err := d.users.Get(ctx, phone)
	if err == nil {
		return user.Role, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("detect role: %w", err)
	}

	vehicles, err := d.vehicles.List(ctx)
	if err != nil {
		return "", fmt.Errorf("detect role: %w", err)
	}
	for _, v := range vehicles {
		if v.DriverPhone == phone {
			return domain.RoleDriver, nil
		}
	}

	return domain.RoleCustomer, nil
}
