package booking

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/logger"
)

// AppointmentCreator is the backend procedure that arbitrates
// double-booking and assigns the initial status.
type AppointmentCreator interface {
	CreateAppointment(ctx context.Context, businessID, customerID uuid.UUID, date time.Time, timeStr string, serviceIDs []uuid.UUID) (*model.Appointment, error)
}

// Request aggregates everything the confirmation step shows: business,
// date, time and the selection. It is left untouched by a failed
// submission so the user can retry without re-entering anything.
type Request struct {
	CustomerID uuid.UUID
	BusinessID uuid.UUID
	Date       time.Time
	Time       string
	Selection  *Selection
}

// TotalPrice is the confirmation-screen price total.
func (r *Request) TotalPrice() model.Money {
	if r.Selection == nil {
		return 0
	}
	return r.Selection.TotalPrice()
}

// TotalDuration is the confirmation-screen duration total.
func (r *Request) TotalDuration() model.Minutes {
	if r.Selection == nil {
		return 0
	}
	return r.Selection.TotalDuration()
}

// Workflow submits bookings. A per-customer in-flight flag rejects
// duplicate submissions while one is still awaiting the backend.
type Workflow struct {
	creator AppointmentCreator
	logger  *logger.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
}

func NewWorkflow(creator AppointmentCreator, logger *logger.Logger) *Workflow {
	return &Workflow{
		creator:  creator,
		logger:   logger,
		inFlight: make(map[uuid.UUID]bool),
	}
}

// Submit validates locally, then calls create_appointment. Every
// validation failure happens before any backend call.
func (w *Workflow) Submit(ctx context.Context, req *Request) (*model.Appointment, error) {
	if err := w.validate(req); err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.inFlight[req.CustomerID] {
		w.mu.Unlock()
		return nil, errors.Conflict("a booking submission is already in progress")
	}
	w.inFlight[req.CustomerID] = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.inFlight, req.CustomerID)
		w.mu.Unlock()
	}()

	apt, err := w.creator.CreateAppointment(ctx, req.BusinessID, req.CustomerID, req.Date, req.Time, req.Selection.SelectedIDs())
	if err != nil {
		w.logger.Error(err, "booking submission failed",
			"business_id", req.BusinessID.String())
		return nil, errors.Remote(serverMessage(err), err)
	}

	return apt, nil
}

func (w *Workflow) validate(req *Request) error {
	if req.CustomerID == uuid.Nil {
		return errors.Unauthorized("you must be logged in to book an appointment")
	}
	if req.BusinessID == uuid.Nil {
		return errors.BadRequest("business is required", nil)
	}
	if req.Date.IsZero() {
		return errors.BadRequest("please select a date", nil)
	}
	if req.Time == "" {
		return errors.BadRequest("please select a time slot", nil)
	}
	if req.Selection == nil || req.Selection.IsEmpty() {
		return errors.BadRequest("please select at least one service", nil)
	}
	return nil
}

// serverMessage extracts the backend-provided message, if any, so it
// can be surfaced verbatim.
func serverMessage(err error) string {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Message
	}
	return ""
}
