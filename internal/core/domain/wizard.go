package domain

import (
	"time"

	"github.com/google/uuid"
)

type Step int

const (
	StepDate Step = iota
	StepTime
	StepService
	StepVehicleInfo
	StepConfirm
)

var stepNames = [...]string{"date", "time", "service", "vehicle_info", "confirm"}

func (s Step) String() string {
	if s < StepDate || s > StepConfirm {
		return "unknown"
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Next returns the following step; Confirm has no successor.
func (s Step) Next() (Step, bool) {
	if s >= StepConfirm {
		return StepConfirm, false
	}
	return s + 1, true
}

// Prev returns the preceding step; Date has no predecessor.
func (s Step) Prev() (Step, bool) {
	if s <= StepDate {
		return StepDate, false
	}
	return s - 1, true
}

// WizardState is the in-memory selection of one booking session.
type WizardState struct {
	Step       Step
	Date       *time.Time
	Time       *ClockTime
	ServiceIDs []uuid.UUID
	Vehicle    VehicleInfo

	// RequestToken is generated by the client and makes resubmission idempotent.
	RequestToken string
}

func (w *WizardState) HasService(id uuid.UUID) bool {
	for _, s := range w.ServiceIDs {
		if s == id {
			return true
		}
	}
	return false
}

func (w *WizardState) ClearSelection() {
	w.ServiceIDs = nil
}

func (w *WizardState) Reset() {
	*w = WizardState{}
}
