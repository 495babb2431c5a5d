package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes >= 0),
		price NUMERIC(12, 2) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER NOT NULL,
		vin TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_identity ON vehicles (user_id, make, model, year)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		vehicle_id UUID NOT NULL REFERENCES vehicles (id),
		appointment_date DATE NOT NULL,
		start_time TIME NOT NULL,
		end_time TIME NOT NULL,
		total_price NUMERIC(12, 2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_status_created ON appointments (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS appointment_services (
		id UUID PRIMARY KEY,
		appointment_id UUID NOT NULL REFERENCES appointments (id) ON DELETE CASCADE,
		service_id UUID NOT NULL REFERENCES services (id),
		price NUMERIC(12, 2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointment_services_appointment ON appointment_services (appointment_id)`,
}

// Migrate creates the booking tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}
