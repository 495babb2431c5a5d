package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/garage_booking/internal/core/domain"
	"github.com/srgjo27/garage_booking/internal/core/ports"
	"github.com/srgjo27/garage_booking/internal/core/ports/mocks"
	"github.com/srgjo27/garage_booking/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	catalog      *mocks.CatalogRepository
	vehicles     *mocks.VehicleRepository
	appointments *mocks.AppointmentRepository
	tokens       *mocks.IdempotencyStore
	recorder     *outcomeRecorder
	service      *services.BookingService
}

type outcomeRecorder struct {
	outcomes   []string
	reconciled int
}

func (r *outcomeRecorder) CommitFinished(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *outcomeRecorder) OrphansReconciled(count int)   { r.reconciled += count }

func newBookingFixture(t *testing.T, withTokens bool) *bookingFixture {
	f := &bookingFixture{
		catalog:      mocks.NewCatalogRepository(t),
		vehicles:     mocks.NewVehicleRepository(t),
		appointments: mocks.NewAppointmentRepository(t),
		recorder:     &outcomeRecorder{},
	}

	var tokens ports.IdempotencyStore
	if withTokens {
		f.tokens = mocks.NewIdempotencyStore(t)
		tokens = f.tokens
	}

	f.service = services.NewBookingService(f.catalog, f.vehicles, f.appointments, tokens, services.DefaultBookingServiceConfig(), nil)
	f.service.SetRecorder(f.recorder)
	return f
}

func quotesFor(svcs ...domain.Service) map[uuid.UUID]domain.ServiceQuote {
	out := make(map[uuid.UUID]domain.ServiceQuote, len(svcs))
	for _, s := range svcs {
		out[s.ID] = domain.ServiceQuote{Price: s.Price, DurationMinutes: s.DurationMinutes}
	}
	return out
}

func confirmedState(ids ...uuid.UUID) domain.WizardState {
	day := nextMonday()
	slot := domain.MustParseClock("10:00")
	return domain.WizardState{
		Step:       domain.StepConfirm,
		Date:       &day,
		Time:       &slot,
		ServiceIDs: ids,
		Vehicle:    domain.VehicleInfo{Make: "Toyota", Model: "Camry", Year: "2020"},
	}
}

func toyota(userID uuid.UUID) domain.VehicleIdentity {
	return domain.VehicleIdentity{UserID: userID, Make: "Toyota", Model: "Camry", Year: 2020}
}

func TestCommit_Success(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	oil, brakes, tyres := catalogFixture()
	user := &domain.User{ID: uuid.New()}
	state := confirmedState(oil.ID, brakes.ID)

	f.catalog.On("ListAll", ctx).Return([]domain.Service{oil, brakes, tyres}, nil)
	f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(nil, domain.ErrVehicleNotFound)
	f.vehicles.On("Create", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)
	f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(oil, brakes), nil)

	var appointmentID uuid.UUID
	f.appointments.On("CreateAppointment", ctx, mock.MatchedBy(func(a *domain.Appointment) bool {
		appointmentID = a.ID
		return a.UserID == user.ID &&
			a.Status == domain.AppointmentPending &&
			a.TotalPrice.Equal(decimal.NewFromInt(2700)) &&
			a.StartTime.String() == "10:00" &&
			a.EndTime.String() == "11:30" &&
			a.Date.Equal(nextMonday())
	})).Return(nil)
	f.appointments.On("AddServiceLines", ctx, mock.MatchedBy(func(lines []domain.AppointmentServiceLine) bool {
		if len(lines) != 2 {
			return false
		}
		for _, l := range lines {
			if l.AppointmentID != appointmentID {
				return false
			}
		}
		return lines[0].ServiceID == oil.ID && lines[0].Price.Equal(oil.Price) &&
			lines[1].ServiceID == brakes.ID && lines[1].Price.Equal(brakes.Price)
	})).Return(nil)

	res, err := f.service.Commit(ctx, user, state)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, appointmentID, res.AppointmentID)
	assert.True(t, decimal.NewFromInt(2700).Equal(res.TotalPrice))
	assert.Equal(t, 90, res.TotalDurationMinutes)
	assert.Equal(t, "11:30", res.EndTime.String())
	assert.Equal(t, "2026-10-19", res.Date)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, oil.ID, res.Lines[0].ServiceID)
	assert.Equal(t, brakes.ID, res.Lines[1].ServiceID)
	assert.Equal(t, []string{services.OutcomeSuccess}, f.recorder.outcomes)
}

func TestCommit_RepeatedServiceIDs(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	oil, _, _ := catalogFixture()
	user := &domain.User{ID: uuid.New()}
	state := confirmedState(oil.ID, oil.ID)

	f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
	f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(&domain.Vehicle{ID: uuid.New()}, nil)
	f.catalog.On("PriceAndDuration", ctx, []uuid.UUID{oil.ID}).Return(quotesFor(oil), nil)
	f.appointments.On("CreateAppointment", ctx, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.TotalPrice.Equal(oil.Price) && a.EndTime.String() == "10:30"
	})).Return(nil)
	f.appointments.On("AddServiceLines", ctx, mock.MatchedBy(func(lines []domain.AppointmentServiceLine) bool {
		return len(lines) == 1 && lines[0].ServiceID == oil.ID
	})).Return(nil)

	res, err := f.service.Commit(ctx, user, state)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{oil.ID}, res.ServiceIDs)
	assert.Equal(t, 30, res.TotalDurationMinutes)

	sum := decimal.Zero
	for _, l := range res.Lines {
		sum = sum.Add(l.Price)
	}
	assert.Len(t, res.Lines, 1)
	assert.True(t, sum.Equal(res.TotalPrice), "total %s, lines sum %s", res.TotalPrice, sum)
}

func TestCommit_UsesFreshPrices(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	oil, _, _ := catalogFixture()
	user := &domain.User{ID: uuid.New()}
	state := confirmedState(oil.ID)

	raised := oil
	raised.Price = decimal.NewFromInt(1350)
	raised.DurationMinutes = 40

	f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
	f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(&domain.Vehicle{ID: uuid.New()}, nil)
	f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(raised), nil)
	f.appointments.On("CreateAppointment", ctx, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.TotalPrice.Equal(raised.Price) && a.EndTime.String() == "10:40"
	})).Return(nil)
	f.appointments.On("AddServiceLines", ctx, mock.MatchedBy(func(lines []domain.AppointmentServiceLine) bool {
		return len(lines) == 1 && lines[0].Price.Equal(raised.Price)
	})).Return(nil)

	_, err := f.service.Commit(ctx, user, state)
	require.NoError(t, err)
}

func TestCommit_IncompleteStateFailsBeforeStore(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New()}

	tests := []struct {
		name  string
		step  domain.Step
		alter func(s *domain.WizardState)
	}{
		{"no date", domain.StepDate, func(s *domain.WizardState) { s.Date = nil }},
		{"no time", domain.StepTime, func(s *domain.WizardState) { s.Time = nil }},
		{"no services", domain.StepService, func(s *domain.WizardState) { s.ServiceIDs = nil }},
		{"no model", domain.StepVehicleInfo, func(s *domain.WizardState) { s.Vehicle.Model = "" }},
		{"year not numeric", domain.StepVehicleInfo, func(s *domain.WizardState) { s.Vehicle.Year = "twenty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := confirmedState(uuid.New())
			tt.alter(&state)

			res, err := f.service.Commit(ctx, user, state)

			assert.Nil(t, res)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.step, verr.Step)
		})
	}
}

// A service removed from the catalog after it was selected aborts the commit
// and sends the customer back to the service step without writing anything.
func TestCommit_StaleSelection(t *testing.T) {
	ctx := context.Background()
	oil, brakes, _ := catalogFixture()
	user := &domain.User{ID: uuid.New()}

	f := newBookingFixture(t, false)
	f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)

	w := newTestWizard(f.service, signedIn(user.ID))
	fillWizard(t, w, oil.ID, brakes.ID)

	out, err := w.Advance(ctx)

	var stale *domain.StaleSelectionError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, []uuid.UUID{brakes.ID}, stale.ServiceIDs)
	assert.Equal(t, domain.StepService, out.Step)
	assert.Equal(t, domain.StepService, w.Step())
	assert.Empty(t, w.State().ServiceIDs)
	assert.Equal(t, []string{services.OutcomeStale}, f.recorder.outcomes)
}

func TestCommit_ServiceRemovedBeforePricing(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	oil, brakes, _ := catalogFixture()
	user := &domain.User{ID: uuid.New()}
	state := confirmedState(oil.ID, brakes.ID)

	f.catalog.On("ListAll", ctx).Return([]domain.Service{oil, brakes}, nil)
	f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(&domain.Vehicle{ID: uuid.New()}, nil)
	f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(oil), nil)

	_, err := f.service.Commit(ctx, user, state)

	var stale *domain.StaleSelectionError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, []uuid.UUID{brakes.ID}, stale.ServiceIDs)
}

func TestCommit_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	oil, _, _ := catalogFixture()

	f := newBookingFixture(t, false)
	f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)

	w := newTestWizard(f.service, func(context.Context) *domain.User { return nil })
	fillWizard(t, w, oil.ID)

	out, err := w.Advance(ctx)

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, services.DefaultLoginPath, out.Redirect)
	assert.Equal(t, []string{services.OutcomeUnauthenticated}, f.recorder.outcomes)
}

func TestCommit_ReusesExistingVehicle(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	oil, _, _ := catalogFixture()
	user := &domain.User{ID: uuid.New()}
	existing := &domain.Vehicle{ID: uuid.New(), UserID: user.ID, Make: "Toyota", Model: "Camry", Year: 2020}

	state := confirmedState(oil.ID)
	state.Vehicle.VIN = "NEWVIN123"

	f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
	f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(existing, nil)
	f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(oil), nil)
	f.appointments.On("CreateAppointment", ctx, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.VehicleID == existing.ID
	})).Return(nil)
	f.appointments.On("AddServiceLines", ctx, mock.Anything).Return(nil)

	res, err := f.service.Commit(ctx, user, state)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.VehicleID)
	f.vehicles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommit_StoreFailures(t *testing.T) {
	ctx := context.Background()
	oil, _, _ := catalogFixture()
	user := &domain.User{ID: uuid.New()}
	state := confirmedState(oil.ID)

	t.Run("catalog unavailable", func(t *testing.T) {
		f := newBookingFixture(t, false)
		f.catalog.On("ListAll", ctx).Return(nil, errors.New("timeout"))

		_, err := f.service.Commit(ctx, user, state)

		var storeErr *domain.StoreOperationError
		require.ErrorAs(t, err, &storeErr)
		assert.False(t, storeErr.Partial())
	})

	t.Run("vehicle resolution aborts before appointment", func(t *testing.T) {
		f := newBookingFixture(t, false)
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(nil, errors.New("connection refused"))

		_, err := f.service.Commit(ctx, user, state)

		var storeErr *domain.StoreOperationError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "resolve vehicle", storeErr.Op)
		assert.Equal(t, []string{services.OutcomeStoreError}, f.recorder.outcomes)
	})

	t.Run("appointment insert fails", func(t *testing.T) {
		f := newBookingFixture(t, false)
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(&domain.Vehicle{ID: uuid.New()}, nil)
		f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(oil), nil)
		f.appointments.On("CreateAppointment", ctx, mock.Anything).Return(errors.New("deadlock detected"))

		_, err := f.service.Commit(ctx, user, state)

		var storeErr *domain.StoreOperationError
		require.ErrorAs(t, err, &storeErr)
		assert.False(t, storeErr.Partial())
		f.appointments.AssertNotCalled(t, "AddServiceLines", mock.Anything, mock.Anything)
	})

	t.Run("service lines fail after appointment", func(t *testing.T) {
		f := newBookingFixture(t, false)
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(&domain.Vehicle{ID: uuid.New()}, nil)
		f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(oil), nil)

		var written uuid.UUID
		f.appointments.On("CreateAppointment", ctx, mock.Anything).Run(func(args mock.Arguments) {
			written = args.Get(1).(*domain.Appointment).ID
		}).Return(nil)
		f.appointments.On("AddServiceLines", ctx, mock.Anything).Return(errors.New("connection reset"))

		_, err := f.service.Commit(ctx, user, state)

		var storeErr *domain.StoreOperationError
		require.ErrorAs(t, err, &storeErr)
		assert.True(t, storeErr.Partial())
		assert.Equal(t, written, *storeErr.AppointmentID)
		assert.Equal(t, []string{services.OutcomePartial}, f.recorder.outcomes)
	})
}

func TestCommit_RequestToken(t *testing.T) {
	ctx := context.Background()
	oil, _, _ := catalogFixture()
	user := &domain.User{ID: uuid.New()}
	state := confirmedState(oil.ID)
	state.RequestToken = "req-7f3a"

	t.Run("completed token replays without writing", func(t *testing.T) {
		f := newBookingFixture(t, true)
		previous := uuid.New()
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.tokens.On("Reserve", ctx, user.ID, "req-7f3a").Return(&previous, false, nil)

		res, err := f.service.Commit(ctx, user, state)

		require.NoError(t, err)
		assert.True(t, res.Replayed)
		assert.Equal(t, previous, res.AppointmentID)
		assert.Equal(t, []string{services.OutcomeReplayed}, f.recorder.outcomes)
	})

	t.Run("token still running", func(t *testing.T) {
		f := newBookingFixture(t, true)
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.tokens.On("Reserve", ctx, user.ID, "req-7f3a").Return(nil, false, nil)

		_, err := f.service.Commit(ctx, user, state)

		assert.ErrorIs(t, err, domain.ErrCommitInProgress)
	})

	t.Run("token released on failure", func(t *testing.T) {
		f := newBookingFixture(t, true)
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.tokens.On("Reserve", ctx, user.ID, "req-7f3a").Return(nil, true, nil)
		f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(nil, errors.New("connection refused"))
		f.tokens.On("Release", mock.Anything, user.ID, "req-7f3a").Return(nil)

		_, err := f.service.Commit(ctx, user, state)

		assert.Error(t, err)
	})

	t.Run("token completed on success", func(t *testing.T) {
		f := newBookingFixture(t, true)
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.tokens.On("Reserve", ctx, user.ID, "req-7f3a").Return(nil, true, nil)
		f.vehicles.On("FindByIdentity", ctx, toyota(user.ID)).Return(&domain.Vehicle{ID: uuid.New()}, nil)
		f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(oil), nil)
		f.appointments.On("CreateAppointment", ctx, mock.Anything).Return(nil)
		f.appointments.On("AddServiceLines", ctx, mock.Anything).Return(nil)
		f.tokens.On("Complete", ctx, user.ID, "req-7f3a", mock.AnythingOfType("uuid.UUID")).Return(nil)

		res, err := f.service.Commit(ctx, user, state)

		require.NoError(t, err)
		assert.False(t, res.Replayed)
		f.tokens.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same token from another user books anew", func(t *testing.T) {
		f := newBookingFixture(t, true)
		other := &domain.User{ID: uuid.New()}
		f.catalog.On("ListAll", ctx).Return([]domain.Service{oil}, nil)
		f.tokens.On("Reserve", ctx, other.ID, "req-7f3a").Return(nil, true, nil)
		f.vehicles.On("FindByIdentity", ctx, toyota(other.ID)).Return(&domain.Vehicle{ID: uuid.New()}, nil)
		f.catalog.On("PriceAndDuration", ctx, state.ServiceIDs).Return(quotesFor(oil), nil)
		f.appointments.On("CreateAppointment", ctx, mock.MatchedBy(func(a *domain.Appointment) bool {
			return a.UserID == other.ID
		})).Return(nil)
		f.appointments.On("AddServiceLines", ctx, mock.Anything).Return(nil)
		f.tokens.On("Complete", ctx, other.ID, "req-7f3a", mock.AnythingOfType("uuid.UUID")).Return(nil)

		res, err := f.service.Commit(ctx, other, state)

		require.NoError(t, err)
		assert.False(t, res.Replayed)
		f.tokens.AssertNotCalled(t, "Reserve", ctx, user.ID, "req-7f3a")
	})
}

func TestReconcileOrphans(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	gone, repaired, broken := uuid.New(), uuid.New(), uuid.New()

	f.appointments.On("ListOrphaned", ctx, mock.AnythingOfType("time.Time"), 100).
		Return([]uuid.UUID{gone, repaired, broken}, nil)
	f.appointments.On("DeleteOrphan", ctx, gone).Return(true, nil)
	f.appointments.On("DeleteOrphan", ctx, repaired).Return(false, nil)
	f.appointments.On("DeleteOrphan", ctx, broken).Return(false, errors.New("lock timeout"))

	removed, err := f.service.ReconcileOrphans(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, f.recorder.reconciled)
}

func TestReconcileOrphans_ListFails(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	f.appointments.On("ListOrphaned", ctx, mock.MatchedBy(func(before time.Time) bool {
		return time.Since(before) >= services.DefaultBookingServiceConfig().OrphanGrace
	}), 100).Return(nil, errors.New("relation does not exist"))

	removed, err := f.service.ReconcileOrphans(ctx)

	assert.Error(t, err)
	assert.Zero(t, removed)
}
