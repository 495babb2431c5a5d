package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/garage_booking/internal/core/domain"
	"github.com/srgjo27/garage_booking/internal/core/ports"
)

const dateLayout = "2006-01-02"

// Commit outcomes reported to the CommitRecorder.
const (
	OutcomeSuccess         = "success"
	OutcomeReplayed        = "replayed"
	OutcomeValidation      = "validation"
	OutcomeStale           = "stale_selection"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeInProgress      = "in_progress"
	OutcomeStoreError      = "store_error"
	OutcomePartial         = "partial_commit"
)

type BookingServiceConfig struct {
	OrphanGrace        time.Duration // pending appointments without lines younger than this are left alone
	ReconcileInterval  time.Duration
	ReconcileBatchSize int
}

func DefaultBookingServiceConfig() BookingServiceConfig {
	return BookingServiceConfig{
		OrphanGrace:        15 * time.Minute,
		ReconcileInterval:  1 * time.Minute,
		ReconcileBatchSize: 100,
	}
}

type CommitRecorder interface {
	CommitFinished(outcome string)
	OrphansReconciled(count int)
}

type noopRecorder struct{}

func (noopRecorder) CommitFinished(string) {}
func (noopRecorder) OrphansReconciled(int) {}

type BookingResult struct {
	AppointmentID        uuid.UUID                       `json:"appointment_id"`
	VehicleID            uuid.UUID                       `json:"vehicle_id,omitempty"`
	Date                 string                          `json:"date,omitempty"`
	StartTime            *domain.ClockTime               `json:"start_time,omitempty"`
	EndTime              *domain.ClockTime               `json:"end_time,omitempty"`
	TotalPrice           decimal.Decimal                 `json:"total_price"`
	TotalDurationMinutes int                             `json:"total_duration_minutes"`
	Status               domain.AppointmentStatus        `json:"status"`
	ServiceIDs           []uuid.UUID                     `json:"service_ids,omitempty"`
	Lines                []domain.AppointmentServiceLine `json:"lines,omitempty"`
	Replayed             bool                            `json:"replayed"`
}

// BookingService turns a confirmed wizard state into an appointment and its
// service lines.
type BookingService struct {
	catalogRepo     ports.CatalogRepository
	appointmentRepo ports.AppointmentRepository
	resolver        *VehicleResolver
	tokens          ports.IdempotencyStore
	recorder        CommitRecorder
	config          BookingServiceConfig
	logger          *logrus.Logger
	now             func() time.Time
}

// NewBookingService wires the coordinator. tokens may be nil, in which case
// request tokens are ignored.
func NewBookingService(
	catalogRepo ports.CatalogRepository,
	vehicleRepo ports.VehicleRepository,
	appointmentRepo ports.AppointmentRepository,
	tokens ports.IdempotencyStore,
	config BookingServiceConfig,
	logger *logrus.Logger,
) *BookingService {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &BookingService{
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		resolver:        NewVehicleResolver(vehicleRepo),
		tokens:          tokens,
		recorder:        noopRecorder{},
		config:          config,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *BookingService) SetRecorder(r CommitRecorder) {
	if r == nil {
		r = noopRecorder{}
	}
	s.recorder = r
}

// ListServices returns the live catalog.
func (s *BookingService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalogRepo.ListAll(ctx)
}

// Commit runs the booking protocol. Store calls are issued strictly in order:
// catalog check, vehicle, pricing, appointment, service lines. The last two
// writes are separate; if the second fails the appointment is left without
// lines and the returned StoreOperationError carries its id.
func (s *BookingService) Commit(ctx context.Context, user *domain.User, state domain.WizardState) (result *BookingResult, err error) {
	defer func() {
		s.recorder.CommitFinished(commitOutcome(result, err))
	}()

	// 1. Last-mile gate
	year, err := validateForCommit(state)
	if err != nil {
		s.logger.WithError(err).Info("booking rejected: incomplete selection")
		return nil, err
	}

	state.ServiceIDs = uniqueIDs(state.ServiceIDs)

	// 2. Re-validate selection against the live catalog
	catalog, err := s.catalogRepo.ListAll(ctx)
	if err != nil {
		return nil, s.storeFailure("load catalog", nil, err)
	}
	if stale := missingIDs(state.ServiceIDs, domain.ServiceIDSet(catalog)); len(stale) > 0 {
		s.logger.WithField("service_ids", stale).Warn("booking rejected: selection no longer in catalog")
		return nil, &domain.StaleSelectionError{ServiceIDs: stale}
	}

	// 3. Identity
	if user == nil || user.ID == uuid.Nil {
		s.logger.Info("booking rejected: no signed in user")
		return nil, domain.ErrUnauthenticated
	}

	log := s.logger.WithField("user_id", user.ID)

	if state.RequestToken != "" && s.tokens != nil {
		existing, reserved, rerr := s.tokens.Reserve(ctx, user.ID, state.RequestToken)
		if rerr != nil {
			return nil, s.storeFailure("reserve request token", nil, rerr)
		}
		if !reserved {
			if existing == nil {
				return nil, domain.ErrCommitInProgress
			}
			log.WithField("appointment_id", *existing).Info("booking replayed from request token")
			return &BookingResult{AppointmentID: *existing, Status: domain.AppointmentPending, Replayed: true}, nil
		}
		defer func() {
			if err != nil {
				s.releaseToken(user.ID, state.RequestToken)
			}
		}()
	}

	// 4. Vehicle
	vehicle := state.Vehicle.Trimmed()
	vehicleID, err := s.resolver.ResolveVehicle(ctx, domain.VehicleIdentity{
		UserID: user.ID,
		Make:   vehicle.Make,
		Model:  vehicle.Model,
		Year:   year,
	}, vehicle.VINOrNil())
	if err != nil {
		return nil, s.storeFailure("resolve vehicle", nil, err)
	}
	log = log.WithField("vehicle_id", vehicleID)

	// 5. Authoritative prices
	quotes, err := s.catalogRepo.PriceAndDuration(ctx, state.ServiceIDs)
	if err != nil {
		return nil, s.storeFailure("load service prices", nil, err)
	}

	priced := make([]domain.Service, 0, len(state.ServiceIDs))
	var missing []uuid.UUID
	for _, id := range state.ServiceIDs {
		q, ok := quotes[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		priced = append(priced, domain.Service{ID: id, Price: q.Price, DurationMinutes: q.DurationMinutes})
	}
	if len(missing) > 0 {
		log.WithField("service_ids", missing).Warn("booking rejected: services removed while pricing")
		return nil, &domain.StaleSelectionError{ServiceIDs: missing}
	}

	// 6. Derived values
	duration := TotalDuration(state.ServiceIDs, priced)
	total := TotalPrice(state.ServiceIDs, priced)
	start := *state.Time
	end := EndTime(start, duration)

	// 7a. Appointment
	appointment := &domain.Appointment{
		ID:         uuid.New(),
		UserID:     user.ID,
		VehicleID:  vehicleID,
		Date:       *state.Date,
		StartTime:  start,
		EndTime:    end,
		TotalPrice: total,
		Status:     domain.AppointmentPending,
		CreatedAt:  s.now(),
	}
	if err := s.appointmentRepo.CreateAppointment(ctx, appointment); err != nil {
		return nil, s.storeFailure("create appointment", nil, err)
	}
	log = log.WithField("appointment_id", appointment.ID)

	// 7b. Service lines with price snapshots
	lines := make([]domain.AppointmentServiceLine, 0, len(priced))
	for _, svc := range priced {
		lines = append(lines, domain.AppointmentServiceLine{
			ID:            uuid.New(),
			AppointmentID: appointment.ID,
			ServiceID:     svc.ID,
			Price:         svc.Price,
		})
	}
	if err := s.appointmentRepo.AddServiceLines(ctx, lines); err != nil {
		return nil, s.storeFailure("add service lines", &appointment.ID, err)
	}
	appointment.Lines = lines

	if state.RequestToken != "" && s.tokens != nil {
		if err := s.tokens.Complete(ctx, user.ID, state.RequestToken, appointment.ID); err != nil {
			log.WithError(err).Warn("failed to record request token")
		}
	}

	log.WithFields(logrus.Fields{
		"total_price": total.String(),
		"duration":    duration,
		"lines":       len(lines),
	}).Info("appointment booked")

	return &BookingResult{
		AppointmentID:        appointment.ID,
		VehicleID:            vehicleID,
		Date:                 appointment.Date.Format(dateLayout),
		StartTime:            &start,
		EndTime:              &end,
		TotalPrice:           total,
		TotalDurationMinutes: duration,
		Status:               appointment.Status,
		ServiceIDs:           append([]uuid.UUID(nil), state.ServiceIDs...),
		Lines:                appointment.Lines,
	}, nil
}

func (s *BookingService) storeFailure(op string, appointmentID *uuid.UUID, err error) error {
	entry := s.logger.WithError(err).WithField("op", op)
	if appointmentID != nil {
		entry.WithField("appointment_id", *appointmentID).Error("partial commit: appointment written without service lines")
	} else {
		entry.Error("booking store operation failed")
	}
	return &domain.StoreOperationError{Op: op, AppointmentID: appointmentID, Err: err}
}

func (s *BookingService) releaseToken(userID uuid.UUID, token string) {
	// the caller's context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.tokens.Release(ctx, userID, token); err != nil {
		s.logger.WithError(err).Warn("failed to release request token")
	}
}

// RunBackgroundCleanup periodically removes appointments that were left
// without service lines by a failed commit.
func (s *BookingService) RunBackgroundCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.config.ReconcileInterval)
	defer ticker.Stop()

	s.logger.WithField("interval", s.config.ReconcileInterval).Info("orphan reconciler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("orphan reconciler stopped")
			return
		case <-ticker.C:
			if _, err := s.ReconcileOrphans(ctx); err != nil {
				s.logger.WithError(err).Error("orphan reconciliation failed")
			}
		}
	}
}

// ReconcileOrphans deletes pending appointments older than the grace period
// that still have no service lines. It returns how many were removed.
func (s *BookingService) ReconcileOrphans(ctx context.Context) (int, error) {
	ids, err := s.appointmentRepo.ListOrphaned(ctx, s.now().Add(-s.config.OrphanGrace), s.config.ReconcileBatchSize)
	if err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	s.logger.WithField("count", len(ids)).Info("found orphaned appointments, cleaning up")

	removed := 0
	for _, id := range ids {
		deleted, err := s.appointmentRepo.DeleteOrphan(ctx, id)
		if err != nil {
			s.logger.WithError(err).WithField("appointment_id", id).Error("failed to delete orphaned appointment")
			continue
		}
		if deleted {
			removed++
			s.logger.WithField("appointment_id", id).Info("orphaned appointment removed")
		}
	}

	s.recorder.OrphansReconciled(removed)
	return removed, nil
}

// uniqueIDs drops repeated ids, keeping first occurrence order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(ids []uuid.UUID, known map[uuid.UUID]struct{}) []uuid.UUID {
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func commitOutcome(result *BookingResult, err error) string {
	var verr *domain.ValidationError
	var stale *domain.StaleSelectionError
	var storeErr *domain.StoreOperationError

	switch {
	case err == nil && result != nil && result.Replayed:
		return OutcomeReplayed
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &stale):
		return OutcomeStale
	case errors.As(err, &verr):
		return OutcomeValidation
	case errors.Is(err, domain.ErrUnauthenticated):
		return OutcomeUnauthenticated
	case errors.Is(err, domain.ErrCommitInProgress):
		return OutcomeInProgress
	case errors.As(err, &storeErr) && storeErr.Partial():
		return OutcomePartial
	default:
		return OutcomeStoreError
	}
}
