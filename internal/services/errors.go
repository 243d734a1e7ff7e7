package services

import "errors"

// Domain errors. Handlers map these onto the HTTP taxonomy: not-found ->
// 404, authorization -> 403, everything else precondition-shaped -> 400.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDriverNotFound  = errors.New("driver profile not found")
	ErrRideNotFound    = errors.New("ride not found")
	ErrRequestNotFound      = errors.New("ride request not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrNotAuthorized = errors.New("not authorized for this ride")

	ErrInvalidStatus      = errors.New("ride status does not allow this transition")
	ErrDriverUnavailable  = errors.New("driver is not available")
	ErrDriverBusy         = errors.New("driver already has an active ride")
	ErrRideAlreadyTaken   = errors.New("ride was already accepted by another driver")
	ErrRideNotJoinable    = errors.New("ride is not open for join requests")
	ErrInsufficientSeats  = errors.New("not enough seats available")
	ErrDuplicateRequest   = errors.New("passenger already has an active request for this ride")
	ErrOwnOffer           = errors.New("drivers cannot request to join their own offer")
	ErrRequestNotPending  = errors.New("ride request is not pending")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrAlreadyRated       = errors.New("this side of the ride has already been rated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrDriverExists       = errors.New("driver profile already exists for this user")
	ErrNotADriver         = errors.New("user does not have a driver profile")
)
