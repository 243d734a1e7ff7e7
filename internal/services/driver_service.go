package services

import (
	"context"
	"errors"
	"time"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/internal/utils"
	"shareride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverService manages driver profiles: registration, availability,
// location pings and earnings.
type DriverService struct {
	drivers interfaces.DriverRepository
	users   interfaces.UserRepository
	logger  *logger.Logger
}

func NewDriverService(drivers interfaces.DriverRepository, users interfaces.UserRepository, log *logger.Logger) *DriverService {
	return &DriverService{
		drivers: drivers,
		users:   users,
		logger:  log.WithComponent("driver_service"),
	}
}

type RegisterDriverInput struct {
	LicenseNumber string
	LicenseExpiry time.Time
	Vehicle       models.Vehicle
	RideType      models.RideType
}

// RegisterDriver attaches a driver profile to an existing user and promotes
// the account to the driver role. One profile per user.
func (s *DriverService) RegisterDriver(ctx context.Context, userID primitive.ObjectID, input RegisterDriverInput) (*models.Driver, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.drivers.GetByUserID(ctx, userID); err == nil {
		return nil, ErrDriverExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	driver := &models.Driver{
		UserID:        userID,
		LicenseNumber: input.LicenseNumber,
		LicenseExpiry: input.LicenseExpiry,
		Vehicle:       input.Vehicle,
		RideType:      input.RideType,
		IsAvailable:   false,
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDriverExists
		}
		return nil, err
	}

	if user.Role != models.UserRoleDriver && user.Role != models.UserRoleAdmin {
		if err := s.users.Update(ctx, userID, map[string]interface{}{"role": models.UserRoleDriver}); err != nil {
			s.logger.WithError(err).WithUserID(userID).Warn("failed to promote user to driver role")
		}
	}

	s.logger.WithUserID(userID).WithField("driver_id", driver.ID.Hex()).Info("driver registered")

	return driver, nil
}

func (s *DriverService) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.drivers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

// SetAvailability toggles the driver on or off duty. A driver on an active
// ride cannot change availability; the lifecycle owns the flag until the
// ride resolves.
func (s *DriverService) SetAvailability(ctx context.Context, userID primitive.ObjectID, available bool) (*models.Driver, error) {
	driver, err := s.drivers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotADriver
		}
		return nil, err
	}

	if err := s.drivers.SetAvailability(ctx, driver.ID, available); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDriverBusy
		}
		return nil, err
	}

	driver.IsAvailable = available
	if available {
		driver.ActiveRideID = nil
	}

	s.logger.WithUserID(userID).WithField("available", available).Info("driver availability changed")

	return driver, nil
}

// UpdateLocation records a location ping. Stale pings (older than the
// staleness window) drop the driver out of nearby queries automatically.
func (s *DriverService) UpdateLocation(ctx context.Context, userID primitive.ObjectID, lng, lat float64, address string) error {
	driver, err := s.drivers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotADriver
		}
		return err
	}

	location := models.NewPoint(lng, lat, address)
	return s.drivers.UpdateLocation(ctx, driver.ID, &location)
}

// NearbyDrivers lists available drivers around a point, closest first.
func (s *DriverService) NearbyDrivers(ctx context.Context, lng, lat, radiusKM float64, rideType models.RideType, limit int64) ([]*models.Driver, error) {
	if radiusKM <= 0 {
		radiusKM = utils.DriverSearchRadiusKM
	}
	if limit <= 0 {
		limit = 20
	}
	return s.drivers.GetNearby(ctx, lng, lat, radiusKM, rideType, limit)
}

// Earnings returns the driver's earnings accumulators and ride count.
func (s *DriverService) Earnings(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	return s.GetByUserID(ctx, userID)
}
