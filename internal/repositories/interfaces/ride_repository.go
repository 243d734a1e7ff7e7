package interfaces

import (
	"context"

	"shareride/internal/models"
	"shareride/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)

	// AssignDriver atomically assigns a driver to a ride that is still
	// acceptable (requested or searching_driver, no driver set). Returns
	// the updated ride, or repositories.ErrNotFound when another driver
	// won the race or the status moved on.
	AssignDriver(ctx context.Context, rideID, driverID primitive.ObjectID) (*models.Ride, error)

	// UpdateStatusIf moves the ride from one of the given statuses to the
	// target status, applying extra field updates in the same atomic
	// operation. Returns the updated ride, or repositories.ErrNotFound
	// when the ride is not in any of the expected statuses.
	UpdateStatusIf(ctx context.Context, rideID primitive.ObjectID, from []models.RideStatus, to models.RideStatus, set map[string]interface{}) (*models.Ride, error)

	// SetRating stores one side of the rating pair. The field is either
	// "user_to_driver_rating" or "driver_to_user_rating".
	SetRating(ctx context.Context, rideID primitive.ObjectID, field string, rating *models.RideRating) error

	// ReserveSeats decrements available_seats by seats, guarded so the
	// count never goes negative and only while the offer is open. Returns
	// the updated ride, or repositories.ErrNotFound when there are not
	// enough seats left or the offer is no longer open.
	ReserveSeats(ctx context.Context, rideID primitive.ObjectID, seats int) (*models.Ride, error)

	// RestoreSeats gives seats back after a rejection or cancellation.
	RestoreSeats(ctx context.Context, rideID primitive.ObjectID, seats int) error

	AppendRequestID(ctx context.Context, rideID, requestID primitive.ObjectID) error

	ListByRider(ctx context.Context, riderID primitive.ObjectID, params utils.PaginationParams) ([]*models.Ride, int64, error)
	ListOpenOffers(ctx context.Context, params utils.PaginationParams) ([]*models.Ride, int64, error)
}
