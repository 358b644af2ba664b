package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
)

// All repository interfaces in one file. These cover the read side of
// the backend's tables; every authoritative write goes through a named
// procedure in internal/rpc instead.
type (
	ProfileRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	}

	BusinessRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Business, error)
		List(ctx context.Context) ([]*model.Business, error)
		ListServices(ctx context.Context, businessID uuid.UUID) ([]model.Service, error)
	}

	AppointmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		GetServices(ctx context.Context, appointmentID uuid.UUID) ([]model.Service, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id, userID uuid.UUID) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
