package services

import (
	"context"
	"errors"
	"fmt"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/internal/utils"
	"shareride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RideRequestService handles the join protocol on shared offers. Seats are
// reserved up front when a request is created and given back on rejection
// or cancellation; an accepted request keeps its seats and can no longer be
// withdrawn by the passenger.
type RideRequestService struct {
	requests      interfaces.RideRequestRepository
	rides         interfaces.RideRepository
	drivers       interfaces.DriverRepository
	fares         *FareService
	notifications *NotificationService
	logger        *logger.Logger
}

func NewRideRequestService(
	requests interfaces.RideRequestRepository,
	rides interfaces.RideRepository,
	drivers interfaces.DriverRepository,
	fares *FareService,
	notifications *NotificationService,
	log *logger.Logger,
) *RideRequestService {
	return &RideRequestService{
		requests:      requests,
		rides:         rides,
		drivers:       drivers,
		fares:         fares,
		notifications: notifications,
		logger:        log.WithComponent("ride_request_service"),
	}
}

type JoinRequestInput struct {
	Seats   int
	Message string
}

// RequestToJoin asks for seats on an open shared offer. The seat decrement
// is a single guarded update, so concurrent joiners can never drive
// available_seats below zero. If the request record cannot be written after
// the seats were taken, the seats are put back.
func (s *RideRequestService) RequestToJoin(ctx context.Context, passengerID, rideID primitive.ObjectID, input JoinRequestInput) (*models.RideRequest, error) {
	if input.Seats < 1 {
		input.Seats = 1
	}

	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if !ride.IsSharedOffer() || ride.Status != models.RideStatusOpen {
		return nil, ErrRideNotJoinable
	}
	if ride.RiderID == passengerID {
		return nil, ErrOwnOffer
	}
	if _, err := s.requests.GetActiveByRideAndPassenger(ctx, rideID, passengerID); err == nil {
		return nil, ErrDuplicateRequest
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if input.Seats > ride.AvailableSeats {
		return nil, fmt.Errorf("%w: %d requested, %d left", ErrInsufficientSeats, input.Seats, ride.AvailableSeats)
	}

	ride, err = s.rides.ReserveSeats(ctx, rideID, input.Seats)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// The guarded decrement matched nothing: either the seats ran
			// out or the offer stopped being open under us.
			current, readErr := s.rides.GetByID(ctx, rideID)
			if readErr != nil || current.Status != models.RideStatusOpen {
				return nil, ErrRideNotJoinable
			}
			return nil, ErrInsufficientSeats
		}
		return nil, err
	}

	request := &models.RideRequest{
		RideID:      rideID,
		PassengerID: passengerID,
		DriverID:    *ride.DriverID,
		Status:      models.RideRequestStatusPending,
		Seats:       input.Seats,
		Fare:        s.fares.SeatFare(ride, input.Seats),
		Message:     input.Message,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		if restoreErr := s.rides.RestoreSeats(ctx, rideID, input.Seats); restoreErr != nil {
			s.logger.WithError(restoreErr).WithRideID(rideID).Error("failed to restore seats after request write failure")
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	if err := s.rides.AppendRequestID(ctx, rideID, request.ID); err != nil {
		s.logger.WithError(err).WithRideID(rideID).Warn("failed to append request to ride")
	}

	s.notifications.Notify(ctx, ride.RiderID, models.NotificationTypeRideRequestReceived,
		"New join request", fmt.Sprintf("A passenger wants %d seat(s) on your ride.", input.Seats),
		map[string]interface{}{"ride_id": rideID.Hex(), "request_id": request.ID.Hex()})

	s.logger.WithRideID(rideID).WithFields(map[string]interface{}{
		"request_id": request.ID.Hex(),
		"seats":      input.Seats,
		"fare":       request.Fare,
	}).Info("join request created")

	return request, nil
}

// RespondToRequest lets the offering driver accept or reject a pending
// request. Rejection hands the reserved seats back; acceptance keeps them.
func (s *RideRequestService) RespondToRequest(ctx context.Context, driverUserID, requestID primitive.ObjectID, accept bool, driverMessage string) (*models.RideRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	driver, err := s.drivers.GetByUserID(ctx, driverUserID)
	if err != nil || driver.ID != request.DriverID {
		return nil, ErrNotAuthorized
	}

	if request.Status != models.RideRequestStatusPending {
		return nil, ErrRequestNotPending
	}

	target := models.RideRequestStatusRejected
	if accept {
		target = models.RideRequestStatusAccepted
	}

	updated, err := s.requests.UpdateStatusIf(ctx, requestID, models.RideRequestStatusPending, target, driverMessage)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotPending
		}
		return nil, err
	}

	if !accept {
		if err := s.rides.RestoreSeats(ctx, updated.RideID, updated.Seats); err != nil {
			s.logger.WithError(err).WithRideID(updated.RideID).Error("failed to restore seats after rejection")
		}
	}

	notificationType := models.NotificationTypeRideRequestRejected
	title, message := "Request rejected", "The driver declined your join request."
	if accept {
		notificationType = models.NotificationTypeRideRequestAccepted
		title, message = "Request accepted", "The driver accepted your join request. You have a seat."
	}
	s.notifications.Notify(ctx, updated.PassengerID, notificationType, title, message,
		map[string]interface{}{"ride_id": updated.RideID.Hex(), "request_id": updated.ID.Hex()})

	s.logger.WithRideID(updated.RideID).WithFields(map[string]interface{}{
		"request_id": updated.ID.Hex(),
		"status":     updated.Status,
	}).Info("join request answered")

	return updated, nil
}

// CancelRequest withdraws a pending request and returns its seats. Once the
// driver has accepted, the booking is binding and cannot be withdrawn.
func (s *RideRequestService) CancelRequest(ctx context.Context, passengerID, requestID primitive.ObjectID) (*models.RideRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.PassengerID != passengerID {
		return nil, ErrNotAuthorized
	}
	if request.Status != models.RideRequestStatusPending {
		return nil, ErrRequestNotPending
	}

	updated, err := s.requests.UpdateStatusIf(ctx, requestID, models.RideRequestStatusPending, models.RideRequestStatusCancelled, "")
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotPending
		}
		return nil, err
	}

	if err := s.rides.RestoreSeats(ctx, updated.RideID, updated.Seats); err != nil {
		s.logger.WithError(err).WithRideID(updated.RideID).Error("failed to restore seats after cancellation")
	}

	s.notifications.Notify(ctx, updated.DriverID, models.NotificationTypeRideRequestCancelled,
		"Request withdrawn", "A passenger withdrew their join request.",
		map[string]interface{}{"ride_id": updated.RideID.Hex(), "request_id": updated.ID.Hex()})

	return updated, nil
}

func (s *RideRequestService) GetRequest(ctx context.Context, requestID primitive.ObjectID) (*models.RideRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

// ListForRide returns the requests on a ride; only the offering driver or
// the ride owner may see them.
func (s *RideRequestService) ListForRide(ctx context.Context, callerUserID, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if ride.RiderID != callerUserID {
		driver, err := s.drivers.GetByUserID(ctx, callerUserID)
		if err != nil || ride.DriverID == nil || driver.ID != *ride.DriverID {
			return nil, ErrNotAuthorized
		}
	}

	return s.requests.ListByRide(ctx, rideID)
}

func (s *RideRequestService) ListForPassenger(ctx context.Context, passengerID primitive.ObjectID, params utils.PaginationParams) ([]*models.RideRequest, int64, error) {
	return s.requests.ListByPassenger(ctx, passengerID, params)
}
