package usecase

import (
	"fmt"

	"dorm-link/pkg/logger"
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/repo/persistent"
)

type NotificationUseCase interface {
	GetNotifications(userID string, limit, offset int) ([]entity.Notification, int64, error)
	MarkRead(userID, notificationID string) error
}

var ErrNotificationNotFound = fmt.Errorf("notification not found")

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, log *logger.Logger) NotificationUseCase {
	return &notificationUseCase{notificationRepo: notificationRepo, logger: log}
}

func (uc *notificationUseCase) GetNotifications(userID string, limit, offset int) ([]entity.Notification, int64, error) {
	notifications, total, err := uc.notificationRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead flips the only mutable flag on a ledger row. Scoped to the owner:
// a user cannot mark someone else's notification.
func (uc *notificationUseCase) MarkRead(userID, notificationID string) error {
	updated, err := uc.notificationRepo.MarkRead(userID, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}
