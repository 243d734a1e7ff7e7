package interfaces

import (
	"context"

	"shareride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	UpdateLocation(ctx context.Context, id primitive.ObjectID, location *models.Location) error

	// CountNearby returns the number of available drivers of the given ride
	// type within radiusKM of the point. Informational only; no driver is
	// locked.
	CountNearby(ctx context.Context, lng, lat, radiusKM float64, rideType models.RideType) (int64, error)
	GetNearby(ctx context.Context, lng, lat, radiusKM float64, rideType models.RideType, limit int64) ([]*models.Driver, error)

	// ClaimForRide atomically flips is_available=true/active_ride=nil to
	// is_available=false/active_ride=rideID. Returns
	// repositories.ErrNotFound when the driver is already busy or offline,
	// so two concurrent claims cannot both succeed.
	ClaimForRide(ctx context.Context, driverID, rideID primitive.ObjectID) error

	// ReleaseFromRide frees a driver whose active ride is rideID.
	ReleaseFromRide(ctx context.Context, driverID, rideID primitive.ObjectID) error

	// CompleteActiveRide frees the driver and credits the fare: increments
	// completed_rides and the total/current-week/current-month earnings
	// accumulators in a single update.
	CompleteActiveRide(ctx context.Context, driverID, rideID primitive.ObjectID, fare float64) error

	// SetAvailability toggles is_available, but only while active_ride is
	// unset; toggling mid-ride returns repositories.ErrNotFound.
	SetAvailability(ctx context.Context, driverID primitive.ObjectID, available bool) error

	UpdateRating(ctx context.Context, id primitive.ObjectID, average float64, count int64) error
}
