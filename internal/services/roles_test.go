package services

import (
	"context"
	"testing"

	"fleet-dispatch-service/internal/adapters/repositories"
	"fleet-dispatch-service/internal/domain"
)

func TestDetectRole(t *testing.T) {
	users := repositories.NewMemoryUserDirectory(
		&domain.User{Phone: "+919999999999", Name: "Manager", Role: domain.RoleManager},
	)
	vehicles := repositories.NewMemoryVehicleRegistry(
		&domain.Vehicle{ID: "TRK001", DriverPhone: "+919876543210", Status: domain.VehicleAvailable},
	)
	d := NewRoleDetector(users, vehicles)
	ctx := context.Background()

	cases := []struct {
		phone string
		want  domain.Role
	}{
		{"+919999999999", domain.RoleManager},
		{"+919876543210", domain.RoleDriver},
		{"+911234567890", domain.RoleCustomer},
	}
	for _, tc := range cases {
		got, err := d.DetectRole(ctx, tc.phone)
		if err != nil {
			t.Fatalf("DetectRole(%s): %v", tc.phone, err)
		}
		if got != tc.want {
			t.Fatalf("DetectRole(%s) = %q, want %q", tc.phone, got, tc.want)
		}
	}
}
