package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/garage_booking/internal/core/domain"
)

type AppointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appointment *domain.Appointment) error {
	query := `
	INSERT INTO appointments (id, user_id, vehicle_id, appointment_date, start_time, end_time, total_price, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.UserID,
		appointment.VehicleID,
		appointment.Date.Format("2006-01-02"),
		appointment.StartTime,
		appointment.EndTime,
		appointment.TotalPrice,
		appointment.Status,
		appointment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	return nil
}

// AddServiceLines inserts all lines of one appointment in a single transaction.
func (r *AppointmentRepository) AddServiceLines(ctx context.Context, lines []domain.AppointmentServiceLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	query := `
	INSERT INTO appointment_services (id, appointment_id, service_id, price)
	VALUES ($1, $2, $3, $4)
	`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare service line statement: %w", err)
	}

	defer stmt.Close()

	for _, line := range lines {
		_, err := stmt.ExecContext(ctx, line.ID, line.AppointmentID, line.ServiceID, line.Price)
		if err != nil {
			return fmt.Errorf("failed to insert service line %s: %w", line.ServiceID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListOrphaned returns pending appointments created before createdBefore that
// have no service lines.
func (r *AppointmentRepository) ListOrphaned(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT a.id FROM appointments a
	WHERE a.status = $1 AND a.created_at < $2
	AND NOT EXISTS (SELECT 1 FROM appointment_services s WHERE s.appointment_id = a.id)
	ORDER BY a.created_at
	LIMIT $3
	`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, domain.AppointmentPending, createdBefore, limit); err != nil {
		return nil, fmt.Errorf("failed to list orphaned appointments: %w", err)
	}

	return ids, nil
}

// DeleteOrphan deletes the appointment only if it is still pending and still
// has no service lines. It reports whether a row was removed.
func (r *AppointmentRepository) DeleteOrphan(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	query := `
	DELETE FROM appointments a
	WHERE a.id = $1 AND a.status = $2
	AND NOT EXISTS (SELECT 1 FROM appointment_services s WHERE s.appointment_id = a.id)
	`

	res, err := r.db.ExecContext(ctx, query, appointmentID, domain.AppointmentPending)
	if err != nil {
		return false, fmt.Errorf("failed to delete appointment %s: %w", appointmentID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
