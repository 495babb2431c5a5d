package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AppointmentStatus string

const (
	AppointmentPending AppointmentStatus = "pending"
)

type Appointment struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	VehicleID  uuid.UUID
	Date       time.Time
	StartTime  ClockTime
	EndTime    ClockTime
	TotalPrice decimal.Decimal
	Status     AppointmentStatus
	CreatedAt  time.Time
	Lines      []AppointmentServiceLine
}

// AppointmentServiceLine holds the price a service had when the appointment
// was committed. Later catalog changes never touch it.
type AppointmentServiceLine struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentID uuid.UUID       `json:"appointment_id"`
	ServiceID     uuid.UUID       `json:"service_id"`
	Price         decimal.Decimal `json:"price"`
}
