package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/garage_booking/internal/core/domain"
)

// CatalogRepository always reads the latest committed catalog; it never caches.
type CatalogRepository interface {
	ListAll(ctx context.Context) ([]domain.Service, error)
	PriceAndDuration(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.ServiceQuote, error)
}

type VehicleRepository interface {
	// FindByIdentity returns domain.ErrVehicleNotFound when no vehicle matches.
	FindByIdentity(ctx context.Context, identity domain.VehicleIdentity) (*domain.Vehicle, error)
	Create(ctx context.Context, vehicle *domain.Vehicle) error
}

type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment *domain.Appointment) error
	AddServiceLines(ctx context.Context, lines []domain.AppointmentServiceLine) error
	ListOrphaned(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
	DeleteOrphan(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}
