package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/garage_booking/internal/core/domain"
	"github.com/srgjo27/garage_booking/internal/core/ports"
)

// VehicleResolver finds a user's vehicle by (make, model, year) or creates it.
//
// Lookup and create are two separate store calls, so two concurrent bookings
// for the same new vehicle can both create a row. Sequential calls always
// return the same id.
type VehicleResolver struct {
	vehicleRepo ports.VehicleRepository
	now         func() time.Time
}

func NewVehicleResolver(vehicleRepo ports.VehicleRepository) *VehicleResolver {
	return &VehicleResolver{vehicleRepo: vehicleRepo, now: time.Now}
}

// ResolveVehicle returns the id of the matching vehicle. An existing vehicle is
// returned as is, even when vin differs from the stored one.
func (r *VehicleResolver) ResolveVehicle(ctx context.Context, identity domain.VehicleIdentity, vin *string) (uuid.UUID, error) {
	existing, err := r.vehicleRepo.FindByIdentity(ctx, identity)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrVehicleNotFound) {
		return uuid.Nil, fmt.Errorf("failed to look up vehicle: %w", err)
	}

	vehicle := &domain.Vehicle{
		ID:        uuid.New(),
		UserID:    identity.UserID,
		Make:      identity.Make,
		Model:     identity.Model,
		Year:      identity.Year,
		VIN:       vin,
		CreatedAt: r.now(),
	}
	if err := r.vehicleRepo.Create(ctx, vehicle); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return vehicle.ID, nil
}
