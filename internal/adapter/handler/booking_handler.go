package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/garage_booking/internal/core/domain"
	"github.com/srgjo27/garage_booking/internal/core/ports"
	"github.com/srgjo27/garage_booking/internal/core/services"
)

const dateLayout = "2006-01-02"

// BookingService is the part of services.BookingService the handler needs.
type BookingService interface {
	services.Committer
	ListServices(ctx context.Context) ([]domain.Service, error)
}

type CreateAppointmentRequest struct {
	Date         string             `json:"date" binding:"required"`
	Time         string             `json:"time" binding:"required"`
	ServiceIDs   []uuid.UUID        `json:"service_ids"`
	Vehicle      domain.VehicleInfo `json:"vehicle"`
	RequestToken string             `json:"request_token"`
}

type BookingHandler struct {
	svc      BookingService
	identity ports.IdentityProvider
	opts     services.WizardOptions
	log      *logrus.Logger
}

func NewBookingHandler(svc BookingService, identity ports.IdentityProvider, opts services.WizardOptions, log *logrus.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, identity: identity, opts: opts, log: log}
}

func (h *BookingHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/services", h.ListServices)
	r.GET("/time-slots", h.ListTimeSlots)
	r.POST("/appointments", h.CreateAppointment)
}

func (h *BookingHandler) ListServices(c *gin.Context) {
	catalog, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list services")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service catalog is unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": catalog})
}

// ListTimeSlots returns the bookable start times. With ?date= it also reports
// whether the shop is open that day.
func (h *BookingHandler) ListTimeSlots(c *gin.Context) {
	resp := gin.H{"time_slots": domain.TimeSlots}

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		resp["date"] = raw
		resp["open"] = h.isOpen(day.Weekday())
	}

	c.JSON(http.StatusOK, resp)
}

// CreateAppointment walks a fresh wizard through every step with the posted
// selections and commits on the confirm step.
func (h *BookingHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		respondStep(c, domain.StepDate, "date must be formatted as YYYY-MM-DD")
		return
	}
	slot, err := domain.ParseClock(req.Time)
	if err != nil {
		respondStep(c, domain.StepTime, "time must be formatted as HH:MM")
		return
	}

	w := services.NewWizard(h.svc, h.identity, h.opts)

	if err := w.SetDate(day); err != nil {
		h.respondError(c, services.Outcome{Step: domain.StepDate}, err)
		return
	}
	if err := w.SetTime(slot); err != nil {
		h.respondError(c, services.Outcome{Step: domain.StepTime}, err)
		return
	}
	w.SelectServices(req.ServiceIDs...)
	w.SetVehicle(req.Vehicle)

	token := req.RequestToken
	if token == "" {
		token = c.GetHeader("Idempotency-Key")
	}
	w.SetRequestToken(token)

	ctx := c.Request.Context()
	for {
		out, err := w.Advance(ctx)
		if err != nil {
			h.respondError(c, out, err)
			return
		}
		if out.Booking == nil {
			continue
		}

		status := http.StatusCreated
		if out.Booking.Replayed {
			status = http.StatusOK
		}
		c.JSON(status, gin.H{
			"message":     out.Message,
			"redirect":    out.Redirect,
			"appointment": out.Booking,
		})
		return
	}
}

func (h *BookingHandler) respondError(c *gin.Context, out services.Outcome, err error) {
	var verr *domain.ValidationError
	var stale *domain.StaleSelectionError
	var storeErr *domain.StoreOperationError

	switch {
	case errors.As(err, &stale):
		c.JSON(http.StatusConflict, gin.H{
			"error":       out.Message,
			"step":        domain.StepService,
			"service_ids": stale.ServiceIDs,
		})
	case errors.As(err, &verr):
		respondStep(c, verr.Step, verr.Reason)
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": out.Redirect})
	case errors.Is(err, domain.ErrCommitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		fields := logrus.Fields{"step": out.Step}
		if errors.As(err, &storeErr) && storeErr.Partial() {
			fields["appointment_id"] = *storeErr.AppointmentID
		}
		h.log.WithError(err).WithFields(fields).Error("booking request failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": out.Message})
	}
}

func respondStep(c *gin.Context, step domain.Step, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": reason, "step": step})
}

func (h *BookingHandler) isOpen(day time.Weekday) bool {
	for _, closed := range h.opts.ClosedWeekdays {
		if closed == day {
			return false
		}
	}
	return true
}
