package interfaces

import (
	"context"

	"shareride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// AppendRideID adds a ride to the user's ride history if not already
	// present.
	AppendRideID(ctx context.Context, userID, rideID primitive.ObjectID) error

	UpdateRating(ctx context.Context, id primitive.ObjectID, average float64, count int64) error

	// Deactivate soft-deletes the account; users are never hard-deleted.
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}
