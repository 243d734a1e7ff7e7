package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/internal/utils"
	"shareride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RideService owns the ride lifecycle state machine:
//
//	requested -> searching_driver -> driver_assigned -> driver_arrived
//	          -> in_progress -> completed
//
// with cancelled reachable from any non-terminal status, and open as the
// initial status of a shared offer. Every racy read-modify-write is pushed
// down to a conditional repository update, so concurrent callers cannot
// both pass a precondition that only holds once.
type RideService struct {
	rides         interfaces.RideRepository
	drivers       interfaces.DriverRepository
	users         interfaces.UserRepository
	requests      interfaces.RideRequestRepository
	fares         *FareService
	notifications *NotificationService
	logger        *logger.Logger
}

func NewRideService(
	rides interfaces.RideRepository,
	drivers interfaces.DriverRepository,
	users interfaces.UserRepository,
	requests interfaces.RideRequestRepository,
	fares *FareService,
	notifications *NotificationService,
	log *logger.Logger,
) *RideService {
	return &RideService{
		rides:         rides,
		drivers:       drivers,
		users:         users,
		requests:      requests,
		fares:         fares,
		notifications: notifications,
		logger:        log.WithComponent("ride_service"),
	}
}

type RequestRideInput struct {
	Pickup            models.Location
	Dropoff           models.Location
	RideType          models.RideType
	EstimatedDistance float64
	EstimatedDuration int
	Seats             int
	PaymentMethod     models.PaymentMethod
}

type RequestRideResult struct {
	Ride          *models.Ride `json:"ride"`
	NearbyDrivers int64        `json:"nearby_drivers"`
}

// RequestRide creates a ride and reports how many matching drivers are
// within the search radius. No driver is locked here; assignment happens
// when a driver accepts.
func (s *RideService) RequestRide(ctx context.Context, riderID primitive.ObjectID, input RequestRideInput) (*RequestRideResult, error) {
	if _, err := s.users.GetByID(ctx, riderID); err != nil {
		return nil, s.mapNotFound(err, ErrUserNotFound)
	}

	seats := input.Seats
	if seats < 1 {
		seats = 1
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCash
	}

	ride := &models.Ride{
		RiderID:           riderID,
		RideType:          input.RideType,
		Status:            models.RideStatusRequested,
		PickupLocation:    input.Pickup,
		DropoffLocation:   input.Dropoff,
		EstimatedDistance: input.EstimatedDistance,
		EstimatedDuration: input.EstimatedDuration,
		Fare:              s.fares.CalculateFare(input.EstimatedDistance, input.RideType, seats),
		PaymentMethod:     paymentMethod,
		PaymentStatus:     models.PaymentStatusPending,
	}

	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, err
	}

	nearby, err := s.drivers.CountNearby(ctx, input.Pickup.Longitude(), input.Pickup.Latitude(), utils.DriverSearchRadiusKM, input.RideType)
	if err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Warn("nearby driver count failed")
		nearby = 0
	}

	ride, err = s.rides.UpdateStatusIf(ctx, ride.ID,
		[]models.RideStatus{models.RideStatusRequested},
		models.RideStatusSearchingDriver, nil)
	if err != nil {
		return nil, err
	}

	s.logger.WithRideID(ride.ID).WithFields(map[string]interface{}{
		"ride_type":      ride.RideType,
		"nearby_drivers": nearby,
	}).Info("ride requested")

	return &RequestRideResult{Ride: ride, NearbyDrivers: nearby}, nil
}

type PublishOfferInput struct {
	Pickup            models.Location
	Dropoff           models.Location
	RideType          models.RideType
	EstimatedDistance float64
	EstimatedDuration int
	Seats             int
	RoutePolyline     string
}

// PublishOffer creates a shared ride offer: a ride in the open status with
// the publishing driver already attached and seats up for grabs.
func (s *RideService) PublishOffer(ctx context.Context, driverUserID primitive.ObjectID, input PublishOfferInput) (*models.Ride, error) {
	driver, err := s.drivers.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrNotADriver)
	}

	if input.Seats < 1 || input.Seats > utils.MaxSeatsPerRide {
		return nil, fmt.Errorf("%w: offers carry 1 to %d seats", ErrInsufficientSeats, utils.MaxSeatsPerRide)
	}

	ride := &models.Ride{
		RiderID:           driverUserID,
		DriverID:          &driver.ID,
		RideType:          input.RideType,
		Status:            models.RideStatusOpen,
		PickupLocation:    input.Pickup,
		DropoffLocation:   input.Dropoff,
		EstimatedDistance: input.EstimatedDistance,
		EstimatedDuration: input.EstimatedDuration,
		TotalSeats:        input.Seats,
		AvailableSeats:    input.Seats,
		Fare:              s.fares.CalculateFare(input.EstimatedDistance, input.RideType, input.Seats),
		PaymentMethod:     models.PaymentMethodCash,
		PaymentStatus:     models.PaymentStatusPending,
		RoutePolyline:     input.RoutePolyline,
	}

	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.logger.WithRideID(ride.ID).WithField("seats", ride.TotalSeats).Info("shared offer published")

	return ride, nil
}

// AcceptRide assigns the caller's driver profile to the ride. The driver is
// claimed first; if the ride was taken in the meantime the claim is rolled
// back, so neither a double assignment nor a stuck driver can result.
func (s *RideService) AcceptRide(ctx context.Context, driverUserID, rideID primitive.ObjectID) (*models.Ride, error) {
	driver, err := s.drivers.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrNotADriver)
	}

	if driver.ActiveRideID != nil {
		return nil, ErrDriverBusy
	}
	if !driver.IsAvailable {
		return nil, ErrDriverUnavailable
	}

	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrRideNotFound)
	}
	if !ride.Status.Acceptable() {
		if ride.DriverID != nil {
			return nil, ErrRideAlreadyTaken
		}
		return nil, fmt.Errorf("%w: ride is %s", ErrInvalidStatus, ride.Status)
	}

	if err := s.drivers.ClaimForRide(ctx, driver.ID, rideID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDriverUnavailable
		}
		return nil, err
	}

	ride, err = s.rides.AssignDriver(ctx, rideID, driver.ID)
	if err != nil {
		if releaseErr := s.drivers.ReleaseFromRide(ctx, driver.ID, rideID); releaseErr != nil {
			s.logger.WithError(releaseErr).WithRideID(rideID).Error("failed to roll back driver claim")
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRideAlreadyTaken
		}
		return nil, err
	}

	s.notifications.Notify(ctx, ride.RiderID, models.NotificationTypeRideAccepted,
		"Driver assigned", "A driver accepted your ride request.",
		map[string]interface{}{"ride_id": ride.ID.Hex()})

	s.logger.WithRideID(ride.ID).WithField("driver_id", driver.ID.Hex()).Info("ride accepted")

	return ride, nil
}

// DriverArrived marks the assigned driver as arrived at the pickup point.
func (s *RideService) DriverArrived(ctx context.Context, driverUserID, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.authorizeAssignedDriver(ctx, driverUserID, rideID)
	if err != nil {
		return nil, err
	}

	updated, err := s.rides.UpdateStatusIf(ctx, ride.ID,
		[]models.RideStatus{models.RideStatusDriverAssigned},
		models.RideStatusDriverArrived,
		map[string]interface{}{"driver_arrived_at": time.Now()})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ride is %s", ErrInvalidStatus, ride.Status)
		}
		return nil, err
	}

	return updated, nil
}

// StartRide begins the trip; only valid once the driver has arrived.
func (s *RideService) StartRide(ctx context.Context, driverUserID, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.authorizeAssignedDriver(ctx, driverUserID, rideID)
	if err != nil {
		return nil, err
	}

	updated, err := s.rides.UpdateStatusIf(ctx, ride.ID,
		[]models.RideStatus{models.RideStatusDriverArrived},
		models.RideStatusInProgress,
		map[string]interface{}{"started_at": time.Now()})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ride is %s", ErrInvalidStatus, ride.Status)
		}
		return nil, err
	}

	s.logger.WithRideID(rideID).Info("ride started")

	return updated, nil
}

// CompleteRide finishes the trip. The actual fare equals the estimate (no
// recalculation from the actual route), payment flips to completed, the
// driver is freed and credited, and the ride lands in the rider's history.
func (s *RideService) CompleteRide(ctx context.Context, driverUserID, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.authorizeAssignedDriver(ctx, driverUserID, rideID)
	if err != nil {
		return nil, err
	}

	actualFare := ride.Fare.Total

	updated, err := s.rides.UpdateStatusIf(ctx, ride.ID,
		[]models.RideStatus{models.RideStatusInProgress},
		models.RideStatusCompleted,
		map[string]interface{}{
			"completed_at":   time.Now(),
			"actual_fare":    actualFare,
			"payment_status": models.PaymentStatusCompleted,
		})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ride is %s", ErrInvalidStatus, ride.Status)
		}
		return nil, err
	}

	if err := s.drivers.CompleteActiveRide(ctx, *updated.DriverID, updated.ID, actualFare); err != nil {
		return nil, fmt.Errorf("ride completed but driver bookkeeping failed: %w", err)
	}

	if err := s.users.AppendRideID(ctx, updated.RiderID, updated.ID); err != nil {
		s.logger.WithError(err).WithRideID(updated.ID).Warn("failed to append ride to rider history")
	}

	s.notifications.Notify(ctx, updated.RiderID, models.NotificationTypeRideCompleted,
		"Ride completed", "Your ride is complete. Thanks for riding with us.",
		map[string]interface{}{"ride_id": updated.ID.Hex(), "fare": actualFare})

	s.logger.WithRideID(updated.ID).WithField("fare", actualFare).Info("ride completed")

	return updated, nil
}

// CancelRide cancels a non-terminal ride. Either the rider or the assigned
// driver may cancel; a freed driver becomes available again.
func (s *RideService) CancelRide(ctx context.Context, callerUserID, rideID primitive.ObjectID, reason string) (*models.Ride, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrRideNotFound)
	}

	cancelledBy, err := s.cancellationActor(ctx, callerUserID, ride)
	if err != nil {
		return nil, err
	}

	if ride.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: ride is %s", ErrInvalidStatus, ride.Status)
	}

	if reason == "" {
		reason = utils.DefaultCancellationReason
	}

	updated, err := s.rides.UpdateStatusIf(ctx, ride.ID,
		[]models.RideStatus{
			models.RideStatusRequested,
			models.RideStatusSearchingDriver,
			models.RideStatusDriverAssigned,
			models.RideStatusDriverArrived,
			models.RideStatusInProgress,
			models.RideStatusOpen,
		},
		models.RideStatusCancelled,
		map[string]interface{}{
			"cancelled_at":        time.Now(),
			"cancellation_reason": reason,
			"cancelled_by":        cancelledBy,
		})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ride is no longer cancellable", ErrInvalidStatus)
		}
		return nil, err
	}

	if updated.DriverID != nil {
		if err := s.drivers.ReleaseFromRide(ctx, *updated.DriverID, updated.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			s.logger.WithError(err).WithRideID(updated.ID).Error("failed to free driver after cancellation")
		}
	}

	if updated.IsSharedOffer() {
		s.sweepOfferRequests(ctx, updated, reason)
	}

	if cancelledBy == models.CancelledByDriver {
		s.notifications.Notify(ctx, updated.RiderID, models.NotificationTypeRideCancelled,
			"Ride cancelled", "Your driver cancelled the ride: "+reason,
			map[string]interface{}{"ride_id": updated.ID.Hex()})
	}

	s.logger.WithRideID(updated.ID).WithFields(map[string]interface{}{
		"cancelled_by": cancelledBy,
		"reason":       reason,
	}).Info("ride cancelled")

	return updated, nil
}

type RateRideInput struct {
	Rating  float64
	Comment string
	RatedBy models.UserRole // user rates the driver, driver rates the user
}

// RateRide stores one side of the rating pair on a completed ride and folds
// the rating into the rated party's running average.
func (s *RideService) RateRide(ctx context.Context, callerUserID, rideID primitive.ObjectID, input RateRideInput) (*models.Ride, error) {
	if input.Rating < utils.MinRating || input.Rating > utils.MaxRating {
		return nil, ErrInvalidRating
	}

	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrRideNotFound)
	}
	if ride.Status != models.RideStatusCompleted {
		return nil, fmt.Errorf("%w: ride is %s", ErrInvalidStatus, ride.Status)
	}
	if ride.DriverID == nil {
		return nil, fmt.Errorf("%w: ride has no driver to rate", ErrInvalidStatus)
	}

	rating := &models.RideRating{
		Rating:  input.Rating,
		Comment: input.Comment,
		RatedAt: time.Now(),
	}

	switch input.RatedBy {
	case models.UserRoleUser:
		if ride.RiderID != callerUserID {
			return nil, ErrNotAuthorized
		}
		if ride.UserToDriverRating != nil {
			return nil, ErrAlreadyRated
		}
		if err := s.rides.SetRating(ctx, ride.ID, "user_to_driver_rating", rating); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrAlreadyRated
			}
			return nil, err
		}
		if err := s.applyDriverRating(ctx, *ride.DriverID, input.Rating); err != nil {
			return nil, err
		}
		ride.UserToDriverRating = rating

	case models.UserRoleDriver:
		driver, err := s.drivers.GetByUserID(ctx, callerUserID)
		if err != nil || driver.ID != *ride.DriverID {
			return nil, ErrNotAuthorized
		}
		if ride.DriverToUserRating != nil {
			return nil, ErrAlreadyRated
		}
		if err := s.rides.SetRating(ctx, ride.ID, "driver_to_user_rating", rating); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrAlreadyRated
			}
			return nil, err
		}
		if err := s.applyUserRating(ctx, ride.RiderID, input.Rating); err != nil {
			return nil, err
		}
		ride.DriverToUserRating = rating

	default:
		return nil, fmt.Errorf("%w: unknown rating side %q", ErrNotAuthorized, input.RatedBy)
	}

	return ride, nil
}

func (s *RideService) GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrRideNotFound)
	}
	return ride, nil
}

func (s *RideService) ListRiderRides(ctx context.Context, riderID primitive.ObjectID, params utils.PaginationParams) ([]*models.Ride, int64, error) {
	return s.rides.ListByRider(ctx, riderID, params)
}

func (s *RideService) ListOpenOffers(ctx context.Context, params utils.PaginationParams) ([]*models.Ride, int64, error) {
	return s.rides.ListOpenOffers(ctx, params)
}

// sweepOfferRequests closes out the join requests of a cancelled offer:
// pending ones flip to cancelled and every passenger still holding seats is
// told the ride is gone. Seat counters are not touched; the ride is
// terminal.
func (s *RideService) sweepOfferRequests(ctx context.Context, ride *models.Ride, reason string) {
	requests, err := s.requests.ListByRide(ctx, ride.ID)
	if err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Error("failed to list requests of cancelled offer")
		return
	}

	for _, request := range requests {
		if !request.Status.IsActive() {
			continue
		}
		if request.Status == models.RideRequestStatusPending {
			if _, err := s.requests.UpdateStatusIf(ctx, request.ID,
				models.RideRequestStatusPending, models.RideRequestStatusCancelled, ""); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				s.logger.WithError(err).WithRideID(ride.ID).Error("failed to cancel request of cancelled offer")
				continue
			}
		}
		s.notifications.Notify(ctx, request.PassengerID, models.NotificationTypeRideCancelled,
			"Ride cancelled", "The shared ride you requested was cancelled: "+reason,
			map[string]interface{}{"ride_id": ride.ID.Hex(), "request_id": request.ID.Hex()})
	}
}

// authorizeAssignedDriver resolves the caller's driver profile and checks it
// is the one assigned to the ride.
func (s *RideService) authorizeAssignedDriver(ctx context.Context, driverUserID, rideID primitive.ObjectID) (*models.Ride, error) {
	driver, err := s.drivers.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrNotADriver)
	}

	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, s.mapNotFound(err, ErrRideNotFound)
	}

	if ride.DriverID == nil || *ride.DriverID != driver.ID {
		return nil, ErrNotAuthorized
	}

	return ride, nil
}

func (s *RideService) cancellationActor(ctx context.Context, callerUserID primitive.ObjectID, ride *models.Ride) (string, error) {
	if ride.RiderID == callerUserID {
		return models.CancelledByRider, nil
	}

	if ride.DriverID != nil {
		driver, err := s.drivers.GetByUserID(ctx, callerUserID)
		if err == nil && driver.ID == *ride.DriverID {
			return models.CancelledByDriver, nil
		}
	}

	return "", ErrNotAuthorized
}

func (s *RideService) applyDriverRating(ctx context.Context, driverID primitive.ObjectID, rating float64) error {
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return err
	}

	average, count := nextRating(driver.Rating, rating)
	return s.drivers.UpdateRating(ctx, driverID, average, count)
}

func (s *RideService) applyUserRating(ctx context.Context, userID primitive.ObjectID, rating float64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	average, count := nextRating(user.Rating, rating)
	return s.users.UpdateRating(ctx, userID, average, count)
}

// nextRating folds a new rating into a running average:
// (avg*count + new) / (count+1), kept to 1 decimal.
func nextRating(current models.RatingAggregate, rating float64) (float64, int64) {
	count := current.Count + 1
	average := utils.Round1((current.Average*float64(current.Count) + rating) / float64(count))
	return average, count
}

func (s *RideService) mapNotFound(err error, sentinel error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return sentinel
	}
	return err
}
