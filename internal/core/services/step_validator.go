package services

import (
	"strconv"

	"github.com/srgjo27/garage_booking/internal/core/domain"
)

// IsStepValid reports whether the wizard may leave step with the given state.
func IsStepValid(step domain.Step, state domain.WizardState) bool {
	return ValidateStep(step, state) == nil
}

// ValidateStep is IsStepValid with a reason attached to the rejection.
func ValidateStep(step domain.Step, state domain.WizardState) *domain.ValidationError {
	switch step {
	case domain.StepDate:
		if state.Date == nil {
			return &domain.ValidationError{Step: step, Reason: "please select a date"}
		}
	case domain.StepTime:
		if state.Time == nil {
			return &domain.ValidationError{Step: step, Reason: "please select a time"}
		}
	case domain.StepService:
		if len(state.ServiceIDs) == 0 {
			return &domain.ValidationError{Step: step, Reason: "please select at least one service"}
		}
	case domain.StepVehicleInfo:
		if !state.Vehicle.IsComplete() {
			return &domain.ValidationError{Step: step, Reason: "please fill in make, model and year"}
		}
	case domain.StepConfirm:
		return nil
	default:
		return &domain.ValidationError{Step: domain.StepDate, Reason: "unknown step"}
	}
	return nil
}

// validateForCommit is the last gate before a commit touches the store.
// It returns the parsed vehicle year.
func validateForCommit(state domain.WizardState) (int, error) {
	for _, step := range []domain.Step{domain.StepDate, domain.StepTime, domain.StepService, domain.StepVehicleInfo} {
		if verr := ValidateStep(step, state); verr != nil {
			return 0, verr
		}
	}

	year, err := strconv.Atoi(state.Vehicle.Trimmed().Year)
	if err != nil || year < 1900 || year > 9999 {
		return 0, &domain.ValidationError{Step: domain.StepVehicleInfo, Reason: "year must be a four digit number"}
	}
	return year, nil
}
