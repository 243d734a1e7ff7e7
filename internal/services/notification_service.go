package services

import (
	"context"
	"errors"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/internal/utils"
	"shareride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService persists in-app notification records. Delivery
// channels are out of scope; a failed write is logged, never propagated,
// so a notification hiccup cannot fail a ride transition.
type NotificationService struct {
	notifications interfaces.NotificationRepository
	logger        *logger.Logger
}

func NewNotificationService(notifications interfaces.NotificationRepository, log *logger.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		logger:        log.WithComponent("notification_service"),
	}
}

func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, message string, data map[string]interface{}) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("failed to write notification")
	}
}

func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, params utils.PaginationParams) ([]*models.Notification, int64, error) {
	return s.notifications.ListByUser(ctx, userID, params)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.notifications.MarkRead(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
