package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/garage_booking/internal/core/domain"
)

type vehicleRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Make      string    `db:"make"`
	Model     string    `db:"model"`
	Year      int       `db:"year"`
	VIN       *string   `db:"vin"`
	CreatedAt time.Time `db:"created_at"`
}

type VehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) FindByIdentity(ctx context.Context, identity domain.VehicleIdentity) (*domain.Vehicle, error) {
	query := `
	SELECT id, user_id, make, model, year, vin, created_at
	FROM vehicles
	WHERE user_id = $1 AND make = $2 AND model = $3 AND year = $4
	ORDER BY created_at
	LIMIT 1
	`

	var row vehicleRow
	err := r.db.GetContext(ctx, &row, query, identity.UserID, identity.Make, identity.Model, identity.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle: %w", err)
	}

	return &domain.Vehicle{
		ID:        row.ID,
		UserID:    row.UserID,
		Make:      row.Make,
		Model:     row.Model,
		Year:      row.Year,
		VIN:       row.VIN,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
	INSERT INTO vehicles (id, user_id, make, model, year, vin, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		vehicle.ID, vehicle.UserID, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.VIN, vehicle.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}

	return nil
}
