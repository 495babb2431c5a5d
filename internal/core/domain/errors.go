package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated  = errors.New("sign in to book an appointment")
	ErrCommitInProgress = errors.New("this booking is already being submitted")
	ErrVehicleNotFound  = errors.New("vehicle not found")
)

// ValidationError is a user-correctable problem tied to a wizard step.
type ValidationError struct {
	Step   Step
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Reason)
}

// StaleSelectionError lists selected services that are gone from the catalog.
type StaleSelectionError struct {
	ServiceIDs []uuid.UUID
}

func (e *StaleSelectionError) Error() string {
	ids := make([]string, len(e.ServiceIDs))
	for i, id := range e.ServiceIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("services no longer available: %s", strings.Join(ids, ", "))
}

// StoreOperationError wraps a backing store failure during commit.
// AppointmentID is set when the appointment row was written before the failure.
type StoreOperationError struct {
	Op            string
	AppointmentID *uuid.UUID
	Err           error
}

func (e *StoreOperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreOperationError) Unwrap() error {
	return e.Err
}

func (e *StoreOperationError) Partial() bool {
	return e.AppointmentID != nil
}
