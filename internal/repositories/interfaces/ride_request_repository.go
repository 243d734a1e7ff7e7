package interfaces

import (
	"context"

	"shareride/internal/models"
	"shareride/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRequestRepository interface {
	Create(ctx context.Context, request *models.RideRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error)

	// GetActiveByRideAndPassenger returns the passenger's pending or
	// accepted request on the ride, or repositories.ErrNotFound.
	GetActiveByRideAndPassenger(ctx context.Context, rideID, passengerID primitive.ObjectID) (*models.RideRequest, error)

	// UpdateStatusIf flips the request status only while it is still in
	// the expected status, stamping responded_at and the driver message.
	// Returns repositories.ErrNotFound when the request already moved on.
	UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to models.RideRequestStatus, driverMessage string) (*models.RideRequest, error)

	ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error)
	ListByPassenger(ctx context.Context, passengerID primitive.ObjectID, params utils.PaginationParams) ([]*models.RideRequest, int64, error)
}
