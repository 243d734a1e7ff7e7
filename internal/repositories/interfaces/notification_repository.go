package interfaces

import (
	"context"

	"shareride/internal/models"
	"shareride/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, params utils.PaginationParams) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
}
