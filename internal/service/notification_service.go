package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/repository"
)

// ErrNotificationNotFound is returned when marking an unknown or
// foreign notification as read.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService handles dashboard notifications.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	log              zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo *repository.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		log:              log.With().Str("component", "notification_service").Logger(),
	}
}

// ListForUser returns a user's notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID int) ([]model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

// Send creates a notification for one user, or broadcasts to every
// active account when req.UserID is zero.
func (s *NotificationService) Send(ctx context.Context, req *model.CreateNotificationRequest) (int, error) {
	if req.UserID == 0 {
		count, err := s.notificationRepo.CreateBroadcast(ctx, req.Message)
		if err != nil {
			return 0, fmt.Errorf("broadcast notification: %w", err)
		}
		s.log.Info().Int("recipients", count).Msg("notification broadcast")
		return count, nil
	}

	n := &model.Notification{UserID: req.UserID, Message: req.Message}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return 0, fmt.Errorf("create notification: %w", err)
	}
	return 1, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	ok, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
