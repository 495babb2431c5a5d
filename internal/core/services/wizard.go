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

const (
	DefaultLoginPath       = "/login"
	DefaultPostBookingPath = "/appointments"
)

type Committer interface {
	Commit(ctx context.Context, user *domain.User, state domain.WizardState) (*BookingResult, error)
}

type WizardOptions struct {
	ClosedWeekdays  []time.Weekday
	LoginPath       string
	PostBookingPath string
	Now             func() time.Time
}

// Outcome tells the presentation layer where the wizard ended up after a move.
type Outcome struct {
	Step     domain.Step
	Message  string
	Redirect string
	Booking  *BookingResult
}

// Wizard drives one booking session through Date, Time, Service, VehicleInfo
// and Confirm. It is owned by a single caller and is not safe for concurrent use.
type Wizard struct {
	state     domain.WizardState
	committer Committer
	identity  ports.IdentityProvider
	opts      WizardOptions
}

func NewWizard(committer Committer, identity ports.IdentityProvider, opts WizardOptions) *Wizard {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LoginPath == "" {
		opts.LoginPath = DefaultLoginPath
	}
	if opts.PostBookingPath == "" {
		opts.PostBookingPath = DefaultPostBookingPath
	}
	return &Wizard{
		committer: committer,
		identity:  identity,
		opts:      opts,
	}
}

func (w *Wizard) State() domain.WizardState {
	st := w.state
	st.ServiceIDs = append([]uuid.UUID(nil), w.state.ServiceIDs...)
	return st
}

func (w *Wizard) Step() domain.Step {
	return w.state.Step
}

func (w *Wizard) SetDate(d time.Time) error {
	day := truncateDay(d)
	today := truncateDay(w.opts.Now().In(d.Location()))
	if day.Before(today) {
		return &domain.ValidationError{Step: domain.StepDate, Reason: "date cannot be in the past"}
	}
	for _, closed := range w.opts.ClosedWeekdays {
		if day.Weekday() == closed {
			return &domain.ValidationError{Step: domain.StepDate, Reason: fmt.Sprintf("the shop is closed on %s", closed)}
		}
	}
	w.state.Date = &day
	return nil
}

func (w *Wizard) SetTime(t domain.ClockTime) error {
	if !domain.IsTimeSlot(t) {
		return &domain.ValidationError{Step: domain.StepTime, Reason: fmt.Sprintf("%s is not an available time slot", t)}
	}
	w.state.Time = &t
	return nil
}

// ToggleService adds id to the selection, or removes it if already selected.
func (w *Wizard) ToggleService(id uuid.UUID) {
	for i, s := range w.state.ServiceIDs {
		if s == id {
			w.state.ServiceIDs = append(w.state.ServiceIDs[:i], w.state.ServiceIDs[i+1:]...)
			return
		}
	}
	w.state.ServiceIDs = append(w.state.ServiceIDs, id)
}

// SelectServices adds ids to the selection, skipping ones already selected.
func (w *Wizard) SelectServices(ids ...uuid.UUID) {
	for _, id := range ids {
		if !w.state.HasService(id) {
			w.state.ServiceIDs = append(w.state.ServiceIDs, id)
		}
	}
}

func (w *Wizard) SetVehicle(v domain.VehicleInfo) {
	w.state.Vehicle = v.Trimmed()
}

func (w *Wizard) SetRequestToken(token string) {
	w.state.RequestToken = token
}

// Advance moves to the next step when the current one is valid. On Confirm it
// commits the booking instead; a successful commit resets the wizard.
func (w *Wizard) Advance(ctx context.Context) (Outcome, error) {
	if verr := ValidateStep(w.state.Step, w.state); verr != nil {
		return Outcome{Step: w.state.Step, Message: verr.Reason}, verr
	}

	if next, ok := w.state.Step.Next(); ok {
		w.state.Step = next
		return Outcome{Step: next}, nil
	}

	var user *domain.User
	if w.identity != nil {
		user = w.identity.CurrentUser(ctx)
	}

	result, err := w.committer.Commit(ctx, user, w.State())
	if err != nil {
		return w.outcomeFor(err), err
	}

	w.state.Reset()
	return Outcome{
		Step:     domain.StepDate,
		Message:  "Your appointment has been booked",
		Redirect: w.opts.PostBookingPath,
		Booking:  result,
	}, nil
}

// Retreat moves one step back. It does nothing on Date.
func (w *Wizard) Retreat() domain.Step {
	if prev, ok := w.state.Step.Prev(); ok {
		w.state.Step = prev
	}
	return w.state.Step
}

func (w *Wizard) outcomeFor(err error) Outcome {
	var verr *domain.ValidationError
	var stale *domain.StaleSelectionError

	switch {
	case errors.As(err, &stale):
		w.state.ClearSelection()
		w.state.Step = domain.StepService
		return Outcome{
			Step:    domain.StepService,
			Message: "Some of the selected services are no longer offered. Please choose your services again.",
		}
	case errors.As(err, &verr):
		w.state.Step = verr.Step
		return Outcome{Step: verr.Step, Message: verr.Reason}
	case errors.Is(err, domain.ErrUnauthenticated):
		return Outcome{Step: w.state.Step, Message: err.Error(), Redirect: w.opts.LoginPath}
	case errors.Is(err, domain.ErrCommitInProgress):
		return Outcome{Step: w.state.Step, Message: err.Error()}
	default:
		return Outcome{Step: w.state.Step, Message: "We could not book your appointment. Please try again later."}
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
