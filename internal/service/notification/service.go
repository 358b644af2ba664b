package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	appointmentService "github.com/bookline/booking-api/internal/service/appointment"
	"github.com/bookline/booking-api/pkg/logger"
)

type Service struct {
	repo   repository.NotificationRepository
	logger *logger.Logger
}

func NewService(repo repository.NotificationRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListForUser returns the caller's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error) {
	notifications, err := s.repo.ListForUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// RecordStatusChange writes the status-change projection for both the
// customer and the business owner.
func (s *Service) RecordStatusChange(ctx context.Context, apt *model.Appointment, businessOwnerID uuid.UUID, action appointmentService.Action) error {
	title := fmt.Sprintf("Appointment %s", apt.Status)
	body := fmt.Sprintf("Your appointment on %s at %s is now %s",
		apt.Date.Format("2006-01-02"), apt.Time, apt.Status)

	recipients := []uuid.UUID{apt.CustomerID}
	if businessOwnerID != uuid.Nil && businessOwnerID != apt.CustomerID {
		recipients = append(recipients, businessOwnerID)
	}

	for _, userID := range recipients {
		n := &model.Notification{
			UserID:        userID,
			AppointmentID: apt.ID,
			Status:        apt.Status,
			Title:         title,
			Body:          body,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}
	return nil
}
