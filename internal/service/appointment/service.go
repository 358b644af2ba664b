package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/auth"
	"github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
)

// TransitionCaller is the set of named backend procedures that perform
// appointment status transitions. Success or failure is all they report.
type TransitionCaller interface {
	ApproveAppointment(ctx context.Context, id uuid.UUID) error
	RejectAppointment(ctx context.Context, id uuid.UUID) error
	CancelAppointment(ctx context.Context, id uuid.UUID) error
	CompleteAppointment(ctx context.Context, id uuid.UUID) error
	MarkAppointmentMissed(ctx context.Context, id uuid.UUID) error
	MarkAppointmentIncompleted(ctx context.Context, id uuid.UUID) error
}

// Notifier records the status-change projection for both parties.
type Notifier interface {
	RecordStatusChange(ctx context.Context, apt *model.Appointment, businessOwnerID uuid.UUID, action Action) error
}

// EventEmitter queues an event for asynchronous publication.
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	repo         repository.AppointmentRepository
	businessRepo repository.BusinessRepository
	caller       TransitionCaller
	notifier     Notifier
	events       EventEmitter
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	businessRepo repository.BusinessRepository,
	caller TransitionCaller,
	notifier Notifier,
	events EventEmitter,
	m *metrics.Metrics,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:         repo,
		businessRepo: businessRepo,
		caller:       caller,
		notifier:     notifier,
		events:       events,
		metrics:      m,
		logger:       logger,
	}
}

// GetAppointment returns one appointment with its booked services.
// Only the booking customer or the owner of the booked business may
// read it.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID, claims *auth.Claims) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}

	if err := s.authorize(ctx, apt, claims); err != nil {
		return nil, err
	}

	services, err := s.repo.GetServices(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment services: %w", err)
	}
	apt.Services = services
	return apt, nil
}

// ListAppointments returns the caller's appointments. Customers see
// their own bookings; business owners see the bookings of a business
// they own.
func (s *Service) ListAppointments(ctx context.Context, claims *auth.Claims, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	switch model.UserRole(claims.Role) {
	case model.UserRoleCustomer:
		filters.CustomerID = claims.UserID
	case model.UserRoleBusiness:
		if filters.BusinessID == uuid.Nil {
			return nil, errors.BadRequest("business_id is required", nil)
		}
		business, err := s.businessRepo.Get(ctx, filters.BusinessID)
		if err != nil {
			return nil, errors.NotFound("business", err)
		}
		if business.OwnerID != claims.UserID {
			return nil, errors.Forbidden("you do not own this business")
		}
	default:
		return nil, errors.Forbidden("unknown role")
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Transition performs one named status transition. The local guard
// pre-validates legality and actor, the backend procedure stays the
// authority, and local state reflects the new status only after the
// procedure succeeds.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, action Action, claims *auth.Claims) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}

	if err := s.authorize(ctx, apt, claims); err != nil {
		s.metrics.TransitionsRejected.Inc()
		return nil, err
	}

	to, err := Resolve(action, apt.Status, model.UserRole(claims.Role))
	if err != nil {
		s.metrics.TransitionsRejected.Inc()
		s.metrics.TransitionsRequested.WithLabelValues(string(action), "rejected").Inc()
		return nil, errors.Conflict(err.Error())
	}

	if err := s.call(ctx, action, id); err != nil {
		s.metrics.TransitionsRequested.WithLabelValues(string(action), "error").Inc()
		s.logger.Error(err, "appointment transition failed",
			"appointment_id", id.String(),
			"action", string(action))
		return nil, errors.Remote("", err)
	}
	s.metrics.TransitionsRequested.WithLabelValues(string(action), "success").Inc()

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		// The backend has committed the transition; a failed local
		// reflection is logged and the fresh status still returned.
		s.logger.Error(err, "failed to reflect appointment status",
			"appointment_id", id.String())
	}
	apt.Status = to

	s.project(ctx, apt, action)
	return apt, nil
}

// authorize ties the caller to the appointment: a customer must be the
// one who booked it, a business user must own the booked business. The
// transition procedures take no actor, so this is the only place the
// caller's identity is checked.
func (s *Service) authorize(ctx context.Context, apt *model.Appointment, claims *auth.Claims) error {
	switch model.UserRole(claims.Role) {
	case model.UserRoleCustomer:
		if apt.CustomerID != claims.UserID {
			return errors.Forbidden("this appointment belongs to another customer")
		}
	case model.UserRoleBusiness:
		business, err := s.businessRepo.Get(ctx, apt.BusinessID)
		if err != nil {
			return errors.NotFound("business", err)
		}
		if business.OwnerID != claims.UserID {
			return errors.Forbidden("you do not own this business")
		}
	default:
		return errors.Forbidden("unknown role")
	}
	return nil
}

func (s *Service) call(ctx context.Context, action Action, id uuid.UUID) error {
	switch action {
	case ActionApprove:
		return s.caller.ApproveAppointment(ctx, id)
	case ActionReject:
		return s.caller.RejectAppointment(ctx, id)
	case ActionCancel:
		return s.caller.CancelAppointment(ctx, id)
	case ActionComplete:
		return s.caller.CompleteAppointment(ctx, id)
	case ActionMarkMissed:
		return s.caller.MarkAppointmentMissed(ctx, id)
	case ActionMarkIncompleted:
		return s.caller.MarkAppointmentIncompleted(ctx, id)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

// project fans the status change out to the outbox and the notification
// table. Projection failures never fail the transition.
func (s *Service) project(ctx context.Context, apt *model.Appointment, action Action) {
	if err := s.events.Emit(ctx, "appointment."+string(action), apt); err != nil {
		s.logger.Error(err, "failed to queue appointment event",
			"appointment_id", apt.ID.String())
	}

	ownerID := uuid.Nil
	if business, err := s.businessRepo.Get(ctx, apt.BusinessID); err == nil {
		ownerID = business.OwnerID
	}

	if err := s.notifier.RecordStatusChange(ctx, apt, ownerID, action); err != nil {
		s.logger.Error(err, "failed to record status-change notification",
			"appointment_id", apt.ID.String())
	}
}
