package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRequestStatus string

const (
	RideRequestStatusPending   RideRequestStatus = "pending"
	RideRequestStatusAccepted  RideRequestStatus = "accepted"
	RideRequestStatusRejected  RideRequestStatus = "rejected"
	RideRequestStatusCancelled RideRequestStatus = "cancelled"
)

// RideRequest is a passenger's bid for seats on a shared ride offer. While
// the request is pending its seats are already deducted from the ride's
// available_seats; rejecting or cancelling a pending request restores them,
// accepting makes the deduction permanent. Only pending requests can be
// withdrawn by the passenger.
type RideRequest struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RideID        primitive.ObjectID `json:"ride_id" bson:"ride_id" validate:"required"`
	PassengerID   primitive.ObjectID `json:"passenger_id" bson:"passenger_id" validate:"required"`
	DriverID      primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	Status        RideRequestStatus  `json:"status" bson:"status" default:"pending"`
	Seats         int                `json:"seats" bson:"seats" validate:"required,min=1"`
	Fare          float64            `json:"fare" bson:"fare"`
	Message       string             `json:"message" bson:"message"`
	DriverMessage string             `json:"driver_message" bson:"driver_message"`
	RespondedAt   *time.Time         `json:"responded_at" bson:"responded_at"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether no further status mutation is permitted.
// Accepted counts as terminal: the seats are committed and the request can
// no longer be withdrawn.
func (s RideRequestStatus) IsTerminal() bool {
	return s != RideRequestStatusPending
}

// IsActive reports whether the request still holds seats on its ride. This
// is the predicate behind the one-request-per-(ride, passenger) index.
func (s RideRequestStatus) IsActive() bool {
	return s == RideRequestStatusPending || s == RideRequestStatusAccepted
}
